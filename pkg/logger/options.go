package logger

import (
	"io"
	"log/slog"
)

// Format selects the slog handler New builds.
type Format int

const (
	// FormatText is slog's key=value text handler.
	FormatText Format = iota
	// FormatPretty renders through charmbracelet/log for terminals.
	FormatPretty
	// FormatJSON emits one JSON object per record.
	FormatJSON
)

// Option configures a logger built by New.
type Option func(*config)

func WithFormat(f Format) Option {
	return func(c *config) { c.format = f }
}

// WithLevel sets the minimum level. Info is the default.
func WithLevel(level slog.Level) Option {
	return func(c *config) { c.level = level }
}

// WithDebug lowers the level to Debug when debug is set.
func WithDebug(debug bool) Option {
	if !debug {
		return func(*config) {}
	}
	return WithLevel(slog.LevelDebug)
}

// WithWriter sends output to w. Several writers are combined with
// io.MultiWriter. Stdout is used when no writer is given.
func WithWriter(w ...io.Writer) Option {
	return func(c *config) { c.writers = append(c.writers, w...) }
}

// WithAttrs binds attributes to every record, as slog.Logger.With does.
func WithAttrs(args ...any) Option {
	return func(c *config) { c.attrs = append(c.attrs, args...) }
}
