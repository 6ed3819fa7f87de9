package logging

import (
	"context"
	"log/slog"
	"time"
)

// Structured keys shared across packages.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldSlug      = "slug"
	FieldRule      = "rule"
	FieldPath      = "path"
	FieldURL       = "url"
)

type Attr = slog.Attr

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

// Slug tags a line with the page it concerns.
func Slug(slug string) Attr { return slog.String(FieldSlug, slug) }

// Rule tags a line with the classifier rule that produced a page.
func Rule(name string) Attr { return slog.String(FieldRule, name) }

func Path(path string) Attr { return slog.String(FieldPath, path) }

func URL(u string) Attr { return slog.String(FieldURL, u) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

// NewComponentLogger tags logger with a component name. A nil logger yields a
// no-op logger so packages can accept optional loggers.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// NoopHandler discards all log output.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }

func (NoopHandler) WithAttrs([]slog.Attr) slog.Handler { return NoopHandler{} }

func (NoopHandler) WithGroup(string) slog.Handler { return NoopHandler{} }
