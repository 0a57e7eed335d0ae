package logging

import (
	"log/slog"
	"os"
)

var defaultLogger *slog.Logger

// Init installs the service logger as both the package default and the slog
// default. Call once at startup, before anything logs.
func Init(logger *slog.Logger) {
	defaultLogger = logger
	slog.SetDefault(logger)
}

// Logger returns the installed logger, falling back to a stderr text logger
// so early or test-time calls never panic.
func Logger() *slog.Logger {
	if defaultLogger != nil {
		return defaultLogger
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func Debug(msg string, args ...any) { Logger().Debug(msg, args...) }
func Info(msg string, args ...any)  { Logger().Info(msg, args...) }
func Warn(msg string, args ...any)  { Logger().Warn(msg, args...) }
func Error(msg string, args ...any) { Logger().Error(msg, args...) }
