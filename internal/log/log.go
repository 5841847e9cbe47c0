// Package log is the process-wide structured logger. The pipeline tags
// its records with a component attribute via Component, so one decoded
// session can be filtered out of mixed monitor and vision output.
package log

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	logger *slog.Logger
	once   sync.Once
)

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Init sets the global log level; unknown or empty levels mean info.
// Output is JSON when GO_ENV=production, text otherwise. Only the
// first call takes effect.
func Init(level string) {
	once.Do(func() {
		lvl, ok := levels[strings.ToLower(level)]
		if !ok {
			lvl = slog.LevelInfo
		}
		opts := &slog.HandlerOptions{Level: lvl}

		var handler slog.Handler
		if os.Getenv("GO_ENV") == "production" {
			handler = slog.NewJSONHandler(os.Stdout, opts)
		} else {
			handler = slog.NewTextHandler(os.Stdout, opts)
		}

		logger = slog.New(handler).With("app", "blinktalk")
		slog.SetDefault(logger)
	})
}

// L returns the global logger, initializing it from LOG_LEVEL on first
// use.
func L() *slog.Logger {
	if logger == nil {
		Init(os.Getenv("LOG_LEVEL"))
	}
	return logger
}

// Component returns a logger tagged for one pipeline component, e.g.
// "session", "monitor", "vision".
func Component(name string) *slog.Logger {
	return L().With("component", name)
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	L().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	L().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	L().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	L().Error(msg, args...)
}

// With returns a logger with the given attributes.
func With(args ...any) *slog.Logger {
	return L().With(args...)
}
