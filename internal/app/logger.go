package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/verdd/verdd-backend/internal/config"
)

// NewLogger creates a *slog.Logger writing to stderr and sets it as the
// default logger via slog.SetDefault.
//
// Format "json" produces structured JSON output (production).
// Format "text" produces human-readable output with source info (development).
// Level is one of: debug, info, warn, error (case-insensitive); defaults to info.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	logger := NewLoggerTo(os.Stderr, cfg)
	slog.SetDefault(logger)
	return logger
}

// NewLoggerTo builds the same logger as NewLogger around w without touching
// the default logger.
func NewLoggerTo(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: strings.EqualFold(cfg.Format, "text"),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
