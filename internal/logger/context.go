package logger

import (
	"context"
	"log/slog"
)

// ctxFields - поля запроса, которые попадают в каждую запись лога
type ctxFields struct {
	requestID string
	userID    string
}

type fieldsKey struct{}

func fieldsFrom(ctx context.Context) ctxFields {
	if ctx == nil {
		return ctxFields{}
	}
	f, _ := ctx.Value(fieldsKey{}).(ctxFields)
	return f
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	f := fieldsFrom(ctx)
	f.requestID = requestID
	return context.WithValue(ctx, fieldsKey{}, f)
}

// WithUserID вызывается middleware после восстановления сессии
func WithUserID(ctx context.Context, userID string) context.Context {
	f := fieldsFrom(ctx)
	f.userID = userID
	return context.WithValue(ctx, fieldsKey{}, f)
}

func GetRequestID(ctx context.Context) string { return fieldsFrom(ctx).requestID }

func GetUserID(ctx context.Context) string { return fieldsFrom(ctx).userID }

// FromContext - глобальный логгер с request_id и user_id запроса
func FromContext(ctx context.Context) *slog.Logger {
	l := GetLogger()
	f := fieldsFrom(ctx)

	args := make([]any, 0, 4)
	if f.requestID != "" {
		args = append(args, "request_id", f.requestID)
	}
	if f.userID != "" {
		args = append(args, "user_id", f.userID)
	}
	if len(args) == 0 {
		return l
	}
	return l.With(args...)
}

func CtxDebug(ctx context.Context, msg string, args ...any) { FromContext(ctx).Debug(msg, args...) }

func CtxInfo(ctx context.Context, msg string, args ...any) { FromContext(ctx).Info(msg, args...) }

func CtxWarn(ctx context.Context, msg string, args ...any) { FromContext(ctx).Warn(msg, args...) }

func CtxError(ctx context.Context, msg string, args ...any) { FromContext(ctx).Error(msg, args...) }

// CtxWithError - Error-запись с полем error
func CtxWithError(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append([]any{"error", err.Error()}, args...)
	}
	FromContext(ctx).Error(msg, args...)
}
