package render_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"autofix/internal/affiliate"
	"autofix/internal/classify"
	"autofix/internal/config"
	"autofix/internal/dataset"
	"autofix/internal/render"
)

var fixedTime = time.Date(2024, 3, 9, 15, 4, 5, 0, time.FixedZone("EST", -5*3600))

func newRenderer(t *testing.T, cfg *config.Config, dir string) *render.Renderer {
	t.Helper()
	templates, err := render.LoadTemplates(dir)
	if err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}
	return render.New(cfg, templates, render.WithClock(func() time.Time { return fixedTime }))
}

func samplePage(t *testing.T) render.Page {
	t.Helper()
	row := dataset.Row{Year: "2015", Make: "Honda", Model: "Civic", Problem: "Alternator whine"}
	page := render.NewPage(row, classify.ForVehicle(row.Year, row.Make, row.Model, row.Problem))
	b := affiliate.NewBuilder(affiliate.IDs{AmazonTag: "tag-20", EbayCID: "5338", CarpartsPID: "pid9"}, nil)
	page.Links = b.BuildAll(context.Background(), row.Year, row.Make, row.Model, page.Bundle.Parts)
	page.ShareURL = "https://fixes.example.com/fixes/" + page.Slug + ".html"
	return page
}

func TestNewPageTextFormats(t *testing.T) {
	page := samplePage(t)
	if page.Title != "2015 Honda Civic — Alternator whine (Instant Fix Guide)" {
		t.Fatalf("title = %q", page.Title)
	}
	if page.MetaDescription != "DIY diagnostic steps, likely causes, and parts for 2015 Honda Civic with 'alternator whine'. " {
		t.Fatalf("meta = %q", page.MetaDescription)
	}
	if page.H1 != "2015 Honda Civic: Alternator whine — Quick DIY Guide" {
		t.Fatalf("h1 = %q", page.H1)
	}
	if page.Slug != "2015-honda-civic-alternator-whine" {
		t.Fatalf("slug = %q", page.Slug)
	}
	if page.Summary() != "2015 Honda Civic — Alternator whine" {
		t.Fatalf("summary = %q", page.Summary())
	}
}

func TestRenderPageContent(t *testing.T) {
	cfg := config.Default()
	cfg.AnalyticsGoogleTag = "G-TEST123"
	r := newRenderer(t, &cfg, "")
	page := samplePage(t)
	page.OGImage = r.AssetURL("../", render.OGPath(page.Slug))

	html, err := r.Render(page)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := string(html)
	for _, want := range []string{
		"<title>2015 Honda Civic — Alternator whine (Instant Fix Guide)</title>",
		"<h1>2015 Honda Civic: Alternator whine — Quick DIY Guide</h1>",
		"https://www.amazon.com/s?k=2015&#43;Honda&#43;Civic&#43;Alternator&#43;%28reman%2Fnew%29&amp;tag=tag-20",
		`href="../assets/style.css"`,
		`content="../assets/og/2015-honda-civic-alternator-whine.png"`,
		"googletagmanager.com/gtag/js?id=G-TEST123",
		`href="../fixes/2015-honda-civic-check-engine-light-on.html"`,
		`href="../makes/honda.html"`,
		`href="../problems/alternator-whine.html"`,
		"url=https%3A%2F%2Ffixes.example.com%2Ffixes%2F2015-honda-civic-alternator-whine.html",
		"Worn brushes or regulator",
		"--brand: #0f172a",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("rendered page missing %q", want)
		}
	}
}

var jsonLDPattern = regexp.MustCompile(`(?s)<script type="application/ld\+json">\s*(\{.*?\})\s*</script>`)

func TestRenderJSONLD(t *testing.T) {
	cfg := config.Default()
	r := newRenderer(t, &cfg, "")
	html, err := r.Render(samplePage(t))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	match := jsonLDPattern.FindSubmatch(html)
	if match == nil {
		t.Fatal("json-ld block not found")
	}
	var doc map[string]any
	if err := json.Unmarshal(match[1], &doc); err != nil {
		t.Fatalf("json-ld is not valid JSON: %v\n%s", err, match[1])
	}
	if doc["@type"] != "TechArticle" || doc["@context"] != "https://schema.org" {
		t.Fatalf("unexpected json-ld type: %#v", doc)
	}
	if doc["dateModified"] != "2024-03-09T20:04:05Z" {
		t.Fatalf("dateModified = %v", doc["dateModified"])
	}
	if doc["about"] != "2015 Honda Civic Alternator whine" || doc["audience"] != "DIY car owners" {
		t.Fatalf("unexpected about/audience: %#v", doc)
	}
	author, _ := doc["author"].(map[string]any)
	if author["name"] != "Instant Auto Fix" || author["@type"] != "Organization" {
		t.Fatalf("unexpected author %#v", author)
	}
}

func TestURLsFollowBaseSettings(t *testing.T) {
	cfg := config.Default()
	r := newRenderer(t, &cfg, "")
	if got := r.SitemapURL("a"); got != "./fixes/a.html" {
		t.Fatalf("SitemapURL = %q", got)
	}
	if got := r.PageURL("a"); got != "./fixes/a.html" {
		t.Fatalf("PageURL = %q", got)
	}
	if got := r.PublicURL("a"); got != "" {
		t.Fatalf("PublicURL without base = %q", got)
	}

	cfg.SiteBaseURL = "/autofix"
	cfg.PublicBaseURL = "https://fixes.example.com"
	if got := r.SitemapURL("a"); got != "./autofix/fixes/a.html" {
		t.Fatalf("SitemapURL with base = %q", got)
	}
	if got := r.PageURL("a"); got != "/autofix/fixes/a.html" {
		t.Fatalf("PageURL with base = %q", got)
	}
	if got := r.PublicURL("a"); got != "https://fixes.example.com/fixes/a.html" {
		t.Fatalf("PublicURL = %q", got)
	}
	if got := r.AssetURL("../", "assets/og/a.png"); got != "https://fixes.example.com/assets/og/a.png" {
		t.Fatalf("AssetURL = %q", got)
	}
}

func TestEntryForPage(t *testing.T) {
	cfg := config.Default()
	r := newRenderer(t, &cfg, "")
	entry := r.Entry(samplePage(t))
	want := render.Entry{
		Title:   "2015 Honda Civic — Alternator whine (Instant Fix Guide)",
		URL:     "./fixes/2015-honda-civic-alternator-whine.html",
		Meta:    "2015 Honda Civic — Alternator whine",
		Make:    "Honda",
		Problem: "Alternator whine",
	}
	if entry != want {
		t.Fatalf("Entry = %+v, want %+v", entry, want)
	}
}

func TestHeadOmitsEmptyImage(t *testing.T) {
	cfg := config.Default()
	r := newRenderer(t, &cfg, "")
	head := string(r.Head("./", ""))
	if strings.Contains(head, "og:image") {
		t.Fatalf("head should not reference an image: %s", head)
	}
	if !strings.Contains(head, `href="./assets/style.css"`) || !strings.Contains(head, "twitter:card") {
		t.Fatalf("unexpected head: %s", head)
	}
}

func TestAnalyticsSnippet(t *testing.T) {
	if got := render.AnalyticsSnippet("", ""); got != "" {
		t.Fatalf("expected empty snippet, got %q", got)
	}
	got := string(render.AnalyticsSnippet("", "cf-token"))
	if !strings.Contains(got, `data-cf-beacon='{"token":"cf-token"}'`) {
		t.Fatalf("unexpected cloudflare snippet %q", got)
	}
}

func TestWriteOverwritesExistingFile(t *testing.T) {
	cfg := config.Default()
	r := newRenderer(t, &cfg, "")
	out := t.TempDir()
	if err := os.MkdirAll(filepath.Join(out, "fixes"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	page := samplePage(t)
	target := filepath.Join(out, "fixes", page.Slug+".html")
	if err := os.WriteFile(target, []byte("stale"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	path, n, err := r.Write(out, page)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if path != target {
		t.Fatalf("path = %q, want %q", path, target)
	}
	data, _ := os.ReadFile(target)
	if len(data) != n || strings.Contains(string(data), "stale") {
		t.Fatalf("file not overwritten (n=%d len=%d)", n, len(data))
	}
}

func TestTemplateOverrideWithUnknownFieldFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "page.html"), []byte("<p>{{.Title}} {{.Nonexistent}}</p>"), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}
	cfg := config.Default()
	r := newRenderer(t, &cfg, dir)
	if got := r.Templates().Source("page.html"); got != filepath.Join(dir, "page.html") {
		t.Fatalf("page source = %q", got)
	}
	if got := r.Templates().Source("index.html"); got != "embedded" {
		t.Fatalf("index source = %q", got)
	}
	if _, err := r.Render(samplePage(t)); err == nil || !strings.Contains(err.Error(), "Nonexistent") {
		t.Fatalf("expected execution error naming the field, got %v", err)
	}
}

func TestTemplateOverrideParseError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("{{.SiteName"), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}
	if _, err := render.LoadTemplates(dir); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestStylesheetOverride(t *testing.T) {
	dir := t.TempDir()
	css := filepath.Join(dir, "style.css")
	if err := os.WriteFile(css, []byte("body{}"), 0o644); err != nil {
		t.Fatalf("write css: %v", err)
	}
	templates, err := render.LoadTemplates(dir)
	if err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}
	if string(templates.Stylesheet()) != "body{}" || templates.StylesheetPath() != css {
		t.Fatalf("override not used: %q %q", templates.Stylesheet(), templates.StylesheetPath())
	}

	defaults, err := render.LoadTemplates("")
	if err != nil {
		t.Fatalf("LoadTemplates(default): %v", err)
	}
	if len(defaults.Stylesheet()) == 0 || defaults.StylesheetPath() != "" {
		t.Fatal("expected embedded stylesheet")
	}
}
