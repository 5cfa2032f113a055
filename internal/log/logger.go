// Package log carries the shared slog setup and the field vocabulary
// used across components.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs the default text handler at the level named by the
// LOG_LEVEL environment variable. Unknown values fall back to info.
func Setup() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// ForComponent returns the default logger tagged with a component name.
func ForComponent(component string) *slog.Logger {
	return slog.Default().With(FieldComponent, component)
}
