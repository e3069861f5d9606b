package apperrors

import "net/http"

/*
Фабрики и предопределенные ошибки предметной области.
Сравнение через errors.Is идет по (Code, Domain), см. AppError.Is.
*/

// ErrNotFound - фабрика для "не найдено" (404)
func ErrNotFound(domain, message string) *AppError {
	return New(CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrInvalidState - операция недопустима в текущем состоянии жизненного цикла (409)
func ErrInvalidState(domain, message string) *AppError {
	return New(CodeInvalidState, domain, message, http.StatusConflict)
}

// ErrDuplicateValue - нарушение уникальности значения (409)
func ErrDuplicateValue(field, message string) *AppError {
	return New(CodeDuplicateValue, "validation", message, http.StatusConflict).
		WithDetails(map[string]string{field: message})
}

// ErrNetwork - сбой транспорта при обращении к хранилищу или внешнему API (503)
func ErrNetwork(err error, domain string) *AppError {
	return Wrap(err, CodeNetworkError, domain, "Service temporarily unavailable", http.StatusServiceUnavailable)
}

// ErrQuery - запрос к хранилищу или внешнему API завершился ошибкой
func ErrQuery(err error, domain string, httpCode int) *AppError {
	return Wrap(err, CodeQueryError, domain, "Query failed", httpCode)
}

// --- Auth ---

var ErrDuplicateAccount = New(
	CodeDuplicateAccount,
	"auth",
	"Email already registered",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrEmailNotVerified = New(
	CodeEmailNotVerified,
	"auth",
	"Please verify your email address",
	http.StatusForbidden,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// --- Profiles & providers ---

var ErrProfileNotFound = ErrNotFound("profile", "Profile not found")

var ErrProviderNotFound = ErrNotFound("provider", "Service provider not found")

var ErrNotServiceProvider = New(
	CodeForbidden,
	"provider",
	"Only service providers can do this",
	http.StatusForbidden,
)

var ErrAlreadyServiceProvider = New(
	CodeDuplicateValue,
	"provider",
	"Profile is already a service provider",
	http.StatusConflict,
)

var ErrCategoryNotFound = ErrNotFound("category", "Category not found")

// --- Requests & proposals ---

var ErrRequestNotFound = ErrNotFound("request", "Service request not found")

var ErrProposalNotFound = ErrNotFound("proposal", "Proposal not found")

var ErrInvalidRequestState = ErrInvalidState("request", "Operation not allowed for the current request status")

var ErrInvalidProposalState = ErrInvalidState("proposal", "Operation not allowed for the current proposal status")

var ErrNotRequestOwner = New(
	CodeForbidden,
	"request",
	"Only the request owner can do this",
	http.StatusForbidden,
)

var ErrDuplicateProposal = New(
	CodeDuplicateValue,
	"proposal",
	"You already sent a proposal for this request",
	http.StatusConflict,
)

var ErrOwnRequest = New(
	CodeForbidden,
	"proposal",
	"You cannot send a proposal to your own request",
	http.StatusForbidden,
)

var ErrRequestNotVisible = New(
	CodeForbidden,
	"proposal",
	"This request is not open to you",
	http.StatusForbidden,
)

// --- Reviews ---

var ErrDuplicateReview = New(
	CodeDuplicateValue,
	"review",
	"You already reviewed this request",
	http.StatusConflict,
)

var ErrReviewNotAllowed = New(
	CodeForbidden,
	"review",
	"Only the client of a completed request can review its provider",
	http.StatusForbidden,
)
