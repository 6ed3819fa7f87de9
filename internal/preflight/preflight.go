package preflight

import (
	"context"

	"autofix/internal/config"
	"autofix/internal/shortener"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}

// RunAll executes every preflight check for the given config. bitlyOpts are
// passed to the shortening client used for the token check.
func RunAll(ctx context.Context, cfg *config.Config, bitlyOpts ...shortener.Option) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckOutputLocation("Output directory", cfg.Paths.OutputDir),
		CheckDataFile("Data file", cfg.Paths.DataFile),
		CheckTemplates("Templates", cfg.Paths.TemplatesDir),
		CheckLinkCache(ctx, "Link cache", cfg.Paths.CachePath),
		CheckShortenerFromConfig(ctx, cfg, bitlyOpts...),
	}
	return results
}
