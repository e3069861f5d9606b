package apperrors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError - ошибка с кодом, доменом и HTTP-статусом. Причина (Err) и статус
// в JSON не попадают.
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Domain   string      `json:"domain"`
	Message  string      `json:"message"`
	Details  interface{} `json:"details,omitempty"`
	Err      error       `json:"-"`
	HTTPCode int         `json:"-"`
}

func New(code ErrorCode, domain, message string, httpCode int) *AppError {
	return &AppError{Code: code, Domain: domain, Message: message, HTTPCode: httpCode}
}

func Wrap(err error, code ErrorCode, domain, message string, httpCode int) *AppError {
	return New(code, domain, message, httpCode).WithError(err)
}

func (e *AppError) Error() string {
	msg := fmt.Sprintf("[%s:%s] %s", e.Domain, e.Code, e.Message)
	if e.Err == nil {
		return msg
	}
	return msg + " (" + e.Err.Error() + ")"
}

func (e *AppError) Unwrap() error { return e.Err }

// Is сравнивает код и домен: копии из WithDetails/WithMessage равны оригиналу
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.Code == t.Code && e.Domain == t.Domain
}

// ==========================
// Копии с изменениями
// ==========================
// Предопределенные ошибки - общие переменные, поэтому всегда копия.

func (e *AppError) clone() *AppError {
	cp := *e
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := e.clone()
	cp.Details = details
	return cp
}

func (e *AppError) WithMessage(message string) *AppError {
	cp := e.clone()
	cp.Message = message
	return cp
}

func (e *AppError) WithError(err error) *AppError {
	cp := e.clone()
	cp.Err = err
	return cp
}

// ==========================
// Проверки цепочки
// ==========================

func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target interface{}) bool { return stderrors.As(err, target) }

func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// ==========================
// Частые конструкторы
// ==========================

func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "system", "Internal server error", http.StatusInternalServerError)
}

// ValidationError - details обычно map поле -> сообщение
func ValidationError(details interface{}) *AppError {
	return New(CodeValidationFailed, "validation", "Validation failed", http.StatusBadRequest).WithDetails(details)
}

func FieldError(field, message string) *AppError {
	return ValidationError(map[string]string{field: message})
}

func NewUnauthorizedError(message string) *AppError {
	return New(CodeUnauthorized, "auth", message, http.StatusUnauthorized)
}

func NewBadRequestError(message string) *AppError {
	return New(CodeValidationFailed, "request", message, http.StatusBadRequest)
}
