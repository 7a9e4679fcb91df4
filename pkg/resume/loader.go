// Package resume builds the grounding context sent alongside every question
// from a set of local markdown documents.
package resume

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Placeholder is returned when no document yields any text.
const Placeholder = "Resume data unavailable."

// Document is one source file after front matter has been removed.
type Document struct {
	Path string
	Body string
	Meta Meta
}

// Loader reads the configured documents. It holds no state between calls,
// so one Loader can serve concurrent requests.
type Loader struct {
	paths    []string
	logger   *slog.Logger
	readFile func(string) ([]byte, error)
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for per-document debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithReadFile replaces os.ReadFile.
func WithReadFile(fn func(string) ([]byte, error)) Option {
	return func(l *Loader) {
		l.readFile = fn
	}
}

// NewLoader returns a Loader over paths, read in the given order.
func NewLoader(paths []string, opts ...Option) *Loader {
	l := &Loader{
		paths:    append([]string(nil), paths...),
		logger:   slog.New(slog.DiscardHandler),
		readFile: os.ReadFile,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Documents reads every path. A document that cannot be read has an empty
// body. Reading stops early if ctx is done.
func (l *Loader) Documents(ctx context.Context) []Document {
	docs := make([]Document, 0, len(l.paths))

	for _, p := range l.paths {
		if ctx.Err() != nil {
			l.logger.Debug("context loading interrupted", "error", ctx.Err())
			break
		}

		doc := Document{Path: p}

		raw, err := l.readFile(p)
		if err != nil {
			l.logger.Debug("context document unreadable", "path", p, "error", err)
			docs = append(docs, doc)
			continue
		}

		doc.Body, doc.Meta = StripFrontMatter(string(raw))
		l.logger.Debug("context document loaded",
			"path", p,
			"title", doc.Meta.Title,
			"bytes", len(doc.Body),
		)

		docs = append(docs, doc)
	}

	return docs
}

// Load returns the grounding context: every document body joined by a blank
// line and trimmed, or Placeholder when nothing remains.
func (l *Loader) Load(ctx context.Context) string {
	docs := l.Documents(ctx)

	bodies := make([]string, len(docs))
	for i, d := range docs {
		bodies[i] = d.Body
	}

	text := strings.TrimSpace(strings.Join(bodies, "\n\n"))
	if text == "" {
		return Placeholder
	}

	return text
}
