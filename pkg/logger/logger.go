// Package logger builds the service's *slog.Logger from the configured level
// and format, and carries small helpers for component-scoped loggers.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates a *slog.Logger writing to stderr.
// Level: "debug", "info", "warn", "error" (default: "info").
// Format: "json" or "text" (default: "text").
func New(level, format string) *slog.Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter creates a *slog.Logger writing to w. Debug loggers also
// record the source location.
func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// ParseLevel converts a level string to slog.Level, ignoring case.
// Unrecognized values return LevelInfo.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Component returns l tagged with a component attribute.
func Component(l *slog.Logger, name string) *slog.Logger {
	return l.With(slog.String("component", name))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
