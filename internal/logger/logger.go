// Package logger provides a structured logging wrapper using zap.
package logger

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// L is the global logger instance
	L    *zap.Logger
	once sync.Once
)

// Options selects the logger flavour
type Options struct {
	Debug bool
	// Level overrides the default level (debug when Debug is set, info otherwise)
	Level string
}

// New builds a logger. Debug mode uses the development config with colored
// levels; otherwise JSON output with ISO8601 timestamps.
func New(opts Options) (*zap.Logger, error) {
	var config zap.Config
	if opts.Debug {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if opts.Level != "" {
		level, err := zap.ParseAtomicLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		config.Level = level
	}

	return config.Build()
}

// Init initializes the global logger once. A build failure falls back to a nop logger.
func Init(opts Options) {
	once.Do(func() {
		l, err := New(opts)
		if err != nil {
			l = zap.NewNop()
		}
		L = l
	})
}

// Sync flushes any buffered log entries.
// Should be called before the application exits.
func Sync() {
	if L != nil {
		_ = L.Sync()
	}
}

// Default initializes a default logger if not already initialized.
func Default() *zap.Logger {
	if L == nil {
		Init(Options{Debug: os.Getenv("GIN_MODE") != "release"})
	}
	return L
}

// Named returns a child logger for a component
func Named(component string) *zap.Logger {
	return Default().Named(component)
}

// With creates a child logger with additional fields.
func With(fields ...zap.Field) *zap.Logger {
	return Default().With(fields...)
}

// Debug logs a debug message.
func Debug(msg string, fields ...zap.Field) {
	Default().Debug(msg, fields...)
}

// Info logs an info message.
func Info(msg string, fields ...zap.Field) {
	Default().Info(msg, fields...)
}

// Warn logs a warning message.
func Warn(msg string, fields ...zap.Field) {
	Default().Warn(msg, fields...)
}

// Error logs an error message.
func Error(msg string, fields ...zap.Field) {
	Default().Error(msg, fields...)
}

// Fatal logs a fatal message and exits.
func Fatal(msg string, fields ...zap.Field) {
	Default().Fatal(msg, fields...)
}
