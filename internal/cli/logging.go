package cli

import (
	"io"
	"log/slog"

	"github.com/roach88/entrada/internal/config"
)

// NewLogger builds the command logger from log settings. Verbose forces
// debug level.
func NewLogger(w io.Writer, cfg config.LogConfig, verbose bool) *slog.Logger {
	level := parseLevel(cfg.Level)
	if verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, hopts)
	} else {
		handler = slog.NewTextHandler(w, hopts)
	}
	return slog.New(handler)
}

// parseLevel accepts slog level names in any case; anything else is info.
func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
