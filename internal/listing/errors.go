package listing

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"chamaai_backend/pkg/apperrors"
)

// ErrorKind - класс ошибки загрузки списка. Обе ошибки не фатальны:
// клиент показывает состояние ошибки и может повторить запрос.
type ErrorKind string

const (
	NetworkError ErrorKind = "NetworkError"
	QueryError   ErrorKind = "QueryError"
)

type Failure struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Classify относит ошибку к NetworkError (транспорт, таймаут, обрыв соединения)
// или к QueryError (все остальное).
func Classify(err error) ErrorKind {
	if err == nil {
		return ""
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		switch appErr.Code {
		case apperrors.CodeNetworkError:
			return NetworkError
		case apperrors.CodeQueryError:
			return QueryError
		}
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, driver.ErrBadConn),
		errors.As(err, &netErr):
		return NetworkError
	default:
		return QueryError
	}
}

func newFailure(err error) *Failure {
	kind := Classify(err)
	msg := "Could not load data"
	if kind == NetworkError {
		msg = "Network unavailable, try again"
	}
	return &Failure{Kind: kind, Message: msg}
}

// AsAppError переводит Failure в ошибку API (503 для сети, 500 для запроса)
func (f *Failure) AsAppError(cause error, domain string) *apperrors.AppError {
	if f.Kind == NetworkError {
		return apperrors.ErrNetwork(cause, domain).WithMessage(f.Message)
	}
	return apperrors.ErrQuery(cause, domain, 500).WithMessage(f.Message)
}
