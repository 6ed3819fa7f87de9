package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"autofix/internal/affiliate"
	"autofix/internal/classify"
	"autofix/internal/config"
	"autofix/internal/dataset"
	"autofix/internal/fileutil"
	"autofix/internal/linkcache"
	"autofix/internal/logging"
	"autofix/internal/ogimage"
	"autofix/internal/render"
	"autofix/internal/shortener"
	"autofix/internal/site"
)

// LockFileName is created inside the output directory for the duration of a build.
const LockFileName = ".autofix.lock"

// ErrBuildLocked is returned when another build holds the output directory lock.
var ErrBuildLocked = errors.New("another build is already writing to the output directory")

// siteDirs are created beneath the output directory before any page is written.
var siteDirs = []string{"assets", filepath.Join("assets", "og"), "fixes", "makes", "problems"}

// Result summarizes a completed build.
type Result struct {
	RunID        string
	Pages        int
	Makes        int
	Problems     int
	Shortened    int
	Files        int
	BytesWritten int64
	FixesDir     string
	Duration     time.Duration
	Entries      []render.Entry
}

// Option customizes a Builder.
type Option func(*Builder)

// WithClock pins the build time used for dateModified and feed dates.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithShortener replaces the shortener derived from configuration.
func WithShortener(s shortener.Shortener) Option {
	return func(b *Builder) {
		b.shortener = s
	}
}

// WithImages replaces the preview image renderer derived from configuration.
func WithImages(r ogimage.Renderer) Option {
	return func(b *Builder) {
		b.images = r
	}
}

// WithRunID replaces the run identifier generator.
func WithRunID(next func() string) Option {
	return func(b *Builder) {
		if next != nil {
			b.newRunID = next
		}
	}
}

// Builder generates the site described by one configuration.
type Builder struct {
	cfg       *config.Config
	base      *slog.Logger
	logger    *slog.Logger
	now       func() time.Time
	newRunID  func() string
	shortener shortener.Shortener
	images    ogimage.Renderer
}

// New constructs a builder for cfg.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Builder, error) {
	if cfg == nil {
		return nil, errors.New("builder requires config")
	}
	b := &Builder{
		cfg:      cfg,
		base:     logger,
		logger:   logging.NewComponentLogger(logger, "builder"),
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// LockPath returns the lock file guarding the output directory.
func (b *Builder) LockPath() string {
	return filepath.Join(b.cfg.Paths.OutputDir, LockFileName)
}

// Run performs one build. Input and template problems are reported before
// anything is written; a failure after that point leaves a partial tree that
// the next run overwrites.
func (b *Builder) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	result := Result{RunID: b.newRunID()}
	ctx = logging.WithRunID(ctx, result.RunID)
	logger := logging.WithContext(ctx, b.logger)

	rows, err := dataset.Load(b.cfg.Paths.DataFile)
	if err != nil {
		return result, err
	}
	templates, err := render.LoadTemplates(b.cfg.Paths.TemplatesDir)
	if err != nil {
		return result, err
	}

	outputDir := b.cfg.Paths.OutputDir
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return result, fmt.Errorf("create output directory: %w", err)
	}
	lock := flock.New(b.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return result, fmt.Errorf("acquire build lock: %w", err)
	}
	if !ok {
		return result, fmt.Errorf("%w: %s", ErrBuildLocked, b.LockPath())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release build lock", logging.Error(err))
		}
	}()

	logger.Info("build started",
		logging.String("data_file", b.cfg.Paths.DataFile),
		logging.String("output_dir", outputDir),
		logging.Int("rows", len(rows)),
	)

	if err := fileutil.EnsureDirs(outputDir, siteDirs...); err != nil {
		return result, err
	}
	n, err := b.writeStylesheet(templates)
	if err != nil {
		return result, err
	}
	result.Files++
	result.BytesWritten += n

	runLogger := logging.WithContext(ctx, b.base)
	links, closeLinks := b.linkShortener(ctx, runLogger, logger)
	defer closeLinks()
	counter := &countingShortener{next: links}

	images := b.images
	if images == nil {
		images, err = ogimage.New(b.cfg)
		if err != nil {
			return result, fmt.Errorf("prepare preview images: %w", err)
		}
	}

	renderer := render.New(b.cfg, templates, render.WithClock(b.now))
	affiliates := affiliate.NewFromConfig(b.cfg, counter)
	entries := make([]render.Entry, 0, len(rows))

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		page := render.NewPage(row, classify.ForVehicle(row.Year, row.Make, row.Model, row.Problem))
		page.Links = affiliates.BuildAll(ctx, row.Year, row.Make, row.Model, page.Bundle.Parts)
		page.ShareURL = b.shareURL(ctx, renderer, affiliates, page.Slug)

		imagePath, err := images.Render(page.Slug, page.Title)
		if err != nil {
			return result, fmt.Errorf("render preview image for %s: %w", page.Slug, err)
		}
		if imagePath != "" {
			page.OGImage = renderer.AssetURL(render.FixRoot, render.OGPath(page.Slug))
			result.Files++
		}

		path, written, err := renderer.Write(outputDir, page)
		if err != nil {
			return result, err
		}
		result.Pages++
		result.Files++
		result.BytesWritten += int64(written)
		entries = append(entries, renderer.Entry(page))
		logger.Debug("page written",
			logging.Path(path),
			logging.Slug(page.Slug),
			logging.Rule(page.Bundle.Rule),
		)
	}

	siteResult, err := site.NewWriter(b.cfg, renderer, images, b.now, runLogger).WriteAll(ctx, entries)
	result.Files += siteResult.Files
	result.BytesWritten += siteResult.BytesWritten
	if err != nil {
		return result, err
	}

	result.Makes = siteResult.Makes
	result.Problems = siteResult.Problems
	result.Shortened = counter.shortened
	result.FixesDir = filepath.Join(outputDir, "fixes")
	result.Entries = entries
	result.Duration = time.Since(start)

	logger.Info("build complete",
		logging.Int("pages", result.Pages),
		logging.Int("makes", result.Makes),
		logging.Int("problems", result.Problems),
		logging.Int("shortened", result.Shortened),
		logging.Duration("duration", result.Duration),
	)
	return result, nil
}

func (b *Builder) writeStylesheet(templates *render.Templates) (int64, error) {
	dst := filepath.Join(b.cfg.Paths.OutputDir, "assets", "style.css")
	if src := templates.StylesheetPath(); src != "" {
		n, err := fileutil.CopyVerified(src, dst)
		if err != nil {
			return 0, fmt.Errorf("copy stylesheet: %w", err)
		}
		return n, nil
	}
	css := templates.Stylesheet()
	if err := fileutil.WriteAtomic(dst, css); err != nil {
		return 0, fmt.Errorf("write stylesheet: %w", err)
	}
	return int64(len(css)), nil
}

// shareURL prefers the shortened public address and falls back to the page
// path when no public base URL is configured.
func (b *Builder) shareURL(ctx context.Context, renderer *render.Renderer, affiliates *affiliate.Builder, slug string) string {
	if public := renderer.PublicURL(slug); public != "" {
		return affiliates.Shorten(ctx, public)
	}
	return renderer.PageURL(slug)
}

// linkShortener returns the configured shortener, wrapped with the link cache
// when one is configured. A cache that cannot be opened is skipped.
func (b *Builder) linkShortener(ctx context.Context, runLogger, logger *slog.Logger) (shortener.Shortener, func()) {
	if b.shortener != nil {
		return b.shortener, func() {}
	}
	s := shortener.NewFromConfig(b.cfg, runLogger)
	if _, noop := s.(shortener.Noop); noop || b.cfg.Paths.CachePath == "" {
		return s, func() {}
	}
	store, err := linkcache.Open(ctx, b.cfg.Paths.CachePath)
	if err != nil {
		logger.Warn("link cache unavailable; shortening without cache",
			logging.Path(b.cfg.Paths.CachePath),
			logging.Error(err),
		)
		return s, func() {}
	}
	return shortener.NewCached(s, store, runLogger), func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close link cache", logging.Error(err))
		}
	}
}

// countingShortener records how many URLs came back changed.
type countingShortener struct {
	next      shortener.Shortener
	shortened int
}

func (c *countingShortener) Shorten(ctx context.Context, longURL string) string {
	short := c.next.Shorten(ctx, longURL)
	if short != longURL {
		c.shortened++
	}
	return short
}
