package logger

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"
)

var global atomic.Pointer[slog.Logger]

// Init настраивает глобальный логгер по окружению:
// development - текст и debug, test - текст и warn, иначе JSON и info.
func Init(env string) {
	InitWithWriter(env, os.Stdout)
}

func InitWithWriter(env string, w io.Writer) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo, AddSource: true}

	var handler slog.Handler
	switch env {
	case "development":
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	case "test":
		opts.Level = slog.LevelWarn
		opts.AddSource = false
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	l := slog.New(handler)
	global.Store(l)
	slog.SetDefault(l)
}

// GetLogger - до вызова Init работает как в development
func GetLogger() *slog.Logger {
	if l := global.Load(); l != nil {
		return l
	}
	Init("development")
	return global.Load()
}

func Info(msg string, args ...any)  { GetLogger().Info(msg, args...) }
func Warn(msg string, args ...any)  { GetLogger().Warn(msg, args...) }
func Error(msg string, args ...any) { GetLogger().Error(msg, args...) }

// Fatal пишет ошибку и завершает процесс
func Fatal(msg string, args ...any) {
	GetLogger().Error(msg, args...)
	os.Exit(1)
}

// ==========================
// Специализированные записи
// ==========================

func DBLog(operation string, duration time.Duration, rows int64, err error) {
	attrs := []any{"operation", operation, "duration_ms", duration.Milliseconds(), "rows", rows}
	if err != nil {
		GetLogger().Error("database operation failed", append(attrs, "error", err.Error())...)
		return
	}
	GetLogger().Debug("database operation", attrs...)
}

// WorkerLog - итог одного прохода фонового воркера
func WorkerLog(worker, operation string, affected int64, err error) {
	attrs := []any{"worker", worker, "operation", operation, "affected", affected}
	if err != nil {
		GetLogger().Error("worker operation failed", append(attrs, "error", err.Error())...)
		return
	}
	GetLogger().Info("worker operation completed", attrs...)
}

// LifecycleLog фиксирует переход статуса заявки или предложения
func LifecycleLog(entity, id string, from, to any) {
	GetLogger().Info("status transition", "entity", entity, "id", id, "from", from, "to", to)
}
