package app

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
)

// Log output formats accepted by --log-format.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

var logFormats = []string{LogFormatText, LogFormatJSON}

// parseLevel accepts slog level names, case-insensitively, with optional
// offsets such as "info+2".
func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", s)
	}
	return level, nil
}

func checkFormat(s string) error {
	if !slices.Contains(logFormats, s) {
		return fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", s)
	}
	return nil
}

// newLogger builds the per-App logger from an already validated Config. It
// does not set the global logger, allowing for isolated logger instances.
func newLogger(cfg *Config, w io.Writer) *slog.Logger {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
