package shortener

import (
	"context"
	"log/slog"

	"autofix/internal/logging"
)

// Cache stores previously shortened URLs across runs.
type Cache interface {
	Get(ctx context.Context, longURL string) (string, bool, error)
	Put(ctx context.Context, longURL, shortURL string) error
}

// Cached consults cache before delegating to next and stores successful
// results. Cache errors are logged and otherwise ignored.
type Cached struct {
	next   Shortener
	cache  Cache
	logger *slog.Logger
}

// NewCached wraps next with cache. A nil cache returns next unchanged.
func NewCached(next Shortener, cache Cache, logger *slog.Logger) Shortener {
	if cache == nil {
		return next
	}
	if _, ok := next.(Noop); ok {
		return next
	}
	return &Cached{next: next, cache: cache, logger: componentLogger(logger)}
}

func (c *Cached) Shorten(ctx context.Context, longURL string) string {
	short, ok, err := c.cache.Get(ctx, longURL)
	if err != nil {
		c.logger.Warn("link cache lookup failed", logging.Error(err))
	} else if ok {
		return short
	}

	short = c.next.Shorten(ctx, longURL)
	if short == longURL {
		return short
	}
	if err := c.cache.Put(ctx, longURL, short); err != nil {
		c.logger.Warn("link cache store failed", logging.Error(err))
	}
	return short
}
