package shortener

import (
	"context"
	"log/slog"

	"autofix/internal/config"
	"autofix/internal/logging"
)

// Shortener maps a long URL to a short one. Implementations never fail; on
// any problem they return the input.
type Shortener interface {
	Shorten(ctx context.Context, longURL string) string
}

// NewFromConfig returns a Bitly client when shortening is enabled and a token
// is present, otherwise the no-op shortener.
func NewFromConfig(cfg *config.Config, logger *slog.Logger, opts ...Option) Shortener {
	if cfg == nil || !cfg.ShortenerEnabled() {
		return Noop{}
	}
	settings := []Option{
		WithTimeout(cfg.ShortenerTimeout()),
		WithRateLimit(cfg.Build.BitlyRequestsPerSecond),
		WithLogger(logger),
	}
	return NewBitly(cfg.BitlyToken, cfg.BitlyDomain, append(settings, opts...)...)
}

// Noop returns every URL unchanged.
type Noop struct{}

func (Noop) Shorten(_ context.Context, longURL string) string { return longURL }

func componentLogger(logger *slog.Logger) *slog.Logger {
	return logging.NewComponentLogger(logger, "shortener")
}
