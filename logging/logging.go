// Package logging builds the service's structured logger.
//
// Logs are JSON on stderr. The level comes from LOG_LEVEL or the
// --log-level flag and accepts debug, info, warn (or warning) and error,
// case-insensitively. Anything else falls back to info.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

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

// New returns a JSON logger writing to stderr. Debug logs carry the source location.
func New(level string) *slog.Logger {
	return NewWithWriter(os.Stderr, level)
}

func NewWithWriter(w io.Writer, level string) *slog.Logger {
	lvl := ParseLevel(level)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	})).With("service", "cozinha")
}

// SetDefault installs a logger built by New as the process default, which
// also routes the standard log package through it.
func SetDefault(level string) *slog.Logger {
	logger := New(level)
	slog.SetDefault(logger)
	return logger
}
