package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// newLogger builds the process logger. Logs never share a stream with the
// generated text.
func newLogger(cfg *LogConfig, w io.Writer) *slog.Logger {
	// Validate has already rejected unknown levels.
	level, _ := parseLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level}

	if strings.ToLower(cfg.Format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
