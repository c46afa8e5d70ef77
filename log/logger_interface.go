package log

import (
	"context"
	golog "log"
	"strings"
)

type contextKey string

const (
	loggerKey contextKey = "genner.logger"
)

var defaultLevel = LevelWarn

// SetDefaultLevel sets the level used by loggers created implicitly, e.g. by
// Ctx when the context carries no logger.
func SetDefaultLevel(level Level) {
	defaultLevel = level
}

// GetDefaultLevel returns the implicit log level.
func GetDefaultLevel() Level {
	return defaultLevel
}

// Logger is the logging interface used by generators and adapters. It mirrors
// the slog method set so that other libraries can be plugged in through small
// adapters.
type Logger interface {
	// Debug logs a message at debug level with optional key-value pairs
	Debug(msg string, args ...any)

	// Info logs a message at info level with optional key-value pairs
	Info(msg string, args ...any)

	// Warn logs a message at warn level with optional key-value pairs
	Warn(msg string, args ...any)

	// Error logs a message at error level with optional key-value pairs
	Error(msg string, args ...any)

	// With returns a Logger that includes the given attributes in each
	// output operation.
	With(args ...any) Logger
}

// WithLogger returns a new context with the given logger.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// Ctx returns the logger from the given context, or a default logger.
func Ctx(ctx context.Context) Logger {
	if ctx == nil {
		return New(defaultLevel)
	}
	logger, ok := ctx.Value(loggerKey).(Logger)
	if !ok {
		return New(defaultLevel)
	}
	return logger
}

// OrDefault returns logger, or a null logger when logger is nil.
func OrDefault(logger Logger) Logger {
	if logger == nil {
		return NewNullLogger()
	}
	return logger
}

// LevelFromString converts a string to a Level. Unknown values yield the
// default level.
func LevelFromString(value string) Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return defaultLevel
	}
}

// Fatal wraps the standard library log.Fatal function.
func Fatal(args ...any) {
	golog.Fatal(args...)
}
