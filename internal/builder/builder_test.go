package builder_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/go-cmp/cmp"

	"autofix/internal/builder"
	"autofix/internal/config"
	"autofix/internal/logging"
	"autofix/internal/testsupport"
)

var buildTime = time.Date(2024, 3, 9, 20, 4, 5, 0, time.UTC)

func sampleConfig(t *testing.T, opts ...testsupport.ConfigOption) *config.Config {
	t.Helper()
	opts = append([]testsupport.ConfigOption{testsupport.WithRows(
		[4]string{"2015", "Honda", "Civic", "Alternator whine"},
		[4]string{"2012", "Ford", "F-150", "Won't start"},
	)}, opts...)
	return testsupport.NewConfig(t, opts...)
}

func newBuilder(t *testing.T, cfg *config.Config, opts ...builder.Option) *builder.Builder {
	t.Helper()
	opts = append([]builder.Option{
		builder.WithClock(func() time.Time { return buildTime }),
		builder.WithRunID(func() string { return "run-1" }),
	}, opts...)
	b, err := builder.New(cfg, logging.NewNop(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func TestRunWritesSiteTree(t *testing.T) {
	cfg := sampleConfig(t)
	result, err := newBuilder(t, cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Pages != 2 || result.Makes != 2 || result.Problems != 2 {
		t.Fatalf("unexpected counts %+v", result)
	}
	if result.RunID != "run-1" || result.Shortened != 0 {
		t.Fatalf("unexpected run metadata %+v", result)
	}
	out := cfg.Paths.OutputDir
	if result.FixesDir != filepath.Join(out, "fixes") {
		t.Fatalf("fixes dir = %q", result.FixesDir)
	}

	for _, name := range []string{
		"index.html",
		"assets/style.css",
		"fixes/2015-honda-civic-alternator-whine.html",
		"fixes/2012-ford-f-150-won-t-start.html",
		"makes/honda.html",
		"makes/ford.html",
		"problems/alternator-whine.html",
		"problems/won-t-start.html",
		"sitemap.json",
		"sitemap.xml",
		"feed.xml",
		"robots.txt",
	} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(name))); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
	if info, err := os.Stat(filepath.Join(out, "assets", "og")); err != nil || !info.IsDir() {
		t.Fatalf("assets/og not created: %v", err)
	}

	var urls []string
	for _, e := range result.Entries {
		urls = append(urls, e.URL)
	}
	want := []string{"./fixes/2015-honda-civic-alternator-whine.html", "./fixes/2012-ford-f-150-won-t-start.html"}
	if diff := cmp.Diff(want, urls); diff != "" {
		t.Fatalf("entry order mismatch (-want +got):\n%s", diff)
	}

	page, _ := os.ReadFile(filepath.Join(out, "fixes", "2015-honda-civic-alternator-whine.html"))
	if !strings.Contains(string(page), "tag=tag-20") || !strings.Contains(string(page), "2024-03-09T20:04:05Z") {
		t.Fatalf("page missing affiliate tag or pinned date")
	}
	if strings.Contains(string(page), "og:image") {
		t.Fatal("page should not reference an image when images are disabled")
	}
}

func TestRunIsRepeatable(t *testing.T) {
	cfg := sampleConfig(t)
	b := newBuilder(t, cfg)
	if _, err := b.Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	first := readTree(t, cfg.Paths.OutputDir)
	if _, err := b.Run(context.Background()); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	second := readTree(t, cfg.Paths.OutputDir)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("rebuild changed output (-first +second):\n%s", diff)
	}
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	files := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || d.Name() == builder.LockFileName {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		files[rel] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
	return files
}

func TestRunFailsWhenLocked(t *testing.T) {
	cfg := sampleConfig(t)
	b := newBuilder(t, cfg)
	if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	held := flock.New(b.LockPath())
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("hold lock: ok=%v err=%v", ok, err)
	}
	t.Cleanup(func() { _ = held.Unlock() })

	if _, err := b.Run(context.Background()); !errors.Is(err, builder.ErrBuildLocked) {
		t.Fatalf("expected ErrBuildLocked, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "index.html")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("locked build should not write output: %v", err)
	}
}

func TestRunRejectsBadInputBeforeWriting(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteText(t, cfg.Paths.DataFile, "year,make,model\n2015,Honda,Civic\n")
	if _, err := newBuilder(t, cfg).Run(context.Background()); err == nil {
		t.Fatal("expected missing column error")
	}
	if _, err := os.Stat(cfg.Paths.OutputDir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("output directory should not exist: %v", err)
	}
}

type fakeShortener struct {
	calls, skipped int
}

func (f *fakeShortener) Shorten(_ context.Context, longURL string) string {
	f.calls++
	if strings.Contains(longURL, "ebay.com") {
		f.skipped++
		return longURL
	}
	return "https://bit.ly/x" + strings.Repeat("y", f.calls)
}

func TestRunCountsShortenedLinks(t *testing.T) {
	cfg := sampleConfig(t)
	cfg.PublicBaseURL = "https://fixes.example.com"
	s := &fakeShortener{}
	result, err := newBuilder(t, cfg, builder.WithShortener(s)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.skipped == 0 || s.calls <= s.skipped {
		t.Fatalf("unexpected shortener traffic %+v", s)
	}
	if result.Shortened != s.calls-s.skipped {
		t.Fatalf("shortened = %d, want %d", result.Shortened, s.calls-s.skipped)
	}
	page, _ := os.ReadFile(filepath.Join(cfg.Paths.OutputDir, "fixes", "2015-honda-civic-alternator-whine.html"))
	if !strings.Contains(string(page), "https://bit.ly/x") {
		t.Fatal("page should carry shortened links")
	}
}

type recordingImages struct{ slugs []string }

func (r *recordingImages) Render(slug, _ string) (string, error) {
	r.slugs = append(r.slugs, slug)
	return filepath.Join("og", slug+".png"), nil
}

func TestRunReferencesPreviewImages(t *testing.T) {
	cfg := sampleConfig(t)
	images := &recordingImages{}
	if _, err := newBuilder(t, cfg, builder.WithImages(images)).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(images.slugs) < 2 || images.slugs[0] != "2015-honda-civic-alternator-whine" {
		t.Fatalf("unexpected image slugs %v", images.slugs)
	}
	page, _ := os.ReadFile(filepath.Join(cfg.Paths.OutputDir, "fixes", "2015-honda-civic-alternator-whine.html"))
	if !strings.Contains(string(page), `content="../assets/og/2015-honda-civic-alternator-whine.png"`) {
		t.Fatalf("page does not reference its preview image")
	}
}

func TestRunWritesPNGCards(t *testing.T) {
	cfg := sampleConfig(t, testsupport.WithOGImages())
	if _, err := newBuilder(t, cfg).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, name := range []string{"2015-honda-civic-alternator-whine.png", "make-honda.png", "instant-auto-fix.png"} {
		if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "assets", "og", name)); err != nil {
			t.Fatalf("missing card %s: %v", name, err)
		}
	}
}

func TestRunCopiesStylesheetOverride(t *testing.T) {
	cfg := sampleConfig(t, testsupport.WithTemplatesDir("templates"))
	testsupport.WriteText(t, filepath.Join(cfg.Paths.TemplatesDir, "style.css"), "body{color:red}")
	if _, err := newBuilder(t, cfg).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	css, err := os.ReadFile(filepath.Join(cfg.Paths.OutputDir, "assets", "style.css"))
	if err != nil || string(css) != "body{color:red}" {
		t.Fatalf("stylesheet = %q, err %v", css, err)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	cfg := sampleConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newBuilder(t, cfg).Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
