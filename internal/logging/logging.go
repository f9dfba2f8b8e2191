// Package logging builds the structured logger shared by the autopilot's
// commands.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config configures the logger.
type Config struct {
	// Level is one of debug, info, warn or error.
	Level  string
	Format Format
	// Output defaults to os.Stderr.
	Output io.Writer
	// Attrs are added to every record.
	Attrs []slog.Attr
}

func DefaultConfig() Config {
	return Config{Level: "info", Format: FormatText, Output: os.Stderr}
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return f, nil
	}
	return FormatText, fmt.Errorf("unknown log format %q", s)
}

// New creates a logger. Unknown levels fall back to info.
func New(cfg Config) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	level, _ := ParseLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch cfg.Format {
	case FormatJSON:
		h = slog.NewJSONHandler(cfg.Output, opts)
	default:
		h = slog.NewTextHandler(cfg.Output, opts)
	}
	if len(cfg.Attrs) > 0 {
		h = h.WithAttrs(cfg.Attrs)
	}
	return slog.New(h)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Component tags a logger with the subsystem it belongs to. A nil logger
// yields a discarding one.
func Component(l *slog.Logger, name string) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l.With("component", name)
}
