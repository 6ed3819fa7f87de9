package site_test

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"autofix/internal/config"
	"autofix/internal/logging"
	"autofix/internal/render"
	"autofix/internal/site"
	"autofix/internal/textutil"
)

var buildTime = time.Date(2024, 3, 9, 20, 4, 5, 0, time.UTC)

func entry(carMake, problem string) render.Entry {
	slug := textutil.Slugify(carMake + " " + problem)
	return render.Entry{
		Title:   carMake + " " + problem,
		URL:     "./fixes/" + slug + ".html",
		Meta:    carMake + " — " + problem,
		Make:    carMake,
		Problem: problem,
	}
}

func TestAggregateIsStableFirstSeen(t *testing.T) {
	entries := []render.Entry{
		entry("Honda", "Won't start"),
		entry("Toyota", "Rough idle"),
		entry("Honda", "Rough idle"),
		entry("Ford", "Won't start"),
		entry("Honda", "Won't start"),
	}
	index := site.Aggregate(entries)

	var makes []string
	for _, g := range index.ByMake {
		makes = append(makes, fmt.Sprintf("%s:%d", g.Name, len(g.Entries)))
	}
	if diff := cmp.Diff([]string{"Honda:3", "Toyota:1", "Ford:1"}, makes); diff != "" {
		t.Fatalf("make grouping mismatch (-want +got):\n%s", diff)
	}
	if index.ByProblem[0].Name != "Won't start" || index.ByProblem[0].Slug != "won-t-start" {
		t.Fatalf("unexpected first problem group %+v", index.ByProblem[0])
	}
	honda := index.ByMake[0].Entries
	if honda[0] != entries[0] || honda[1] != entries[2] || honda[2] != entries[4] {
		t.Fatalf("entries out of input order: %+v", honda)
	}

	total := 0
	for _, g := range index.ByProblem {
		total += len(g.Entries)
	}
	if total != len(entries) {
		t.Fatalf("problem groups hold %d entries, want %d", total, len(entries))
	}
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		url, base, want string
	}{
		{"./fixes/a.html", "https://x.example", "https://x.example/fixes/a.html"},
		{"./sub/fixes/a.html", "https://x.example", "https://x.example/sub/fixes/a.html"},
		{"./fixes/a.html", "", "./fixes/a.html"},
		{"https://other.example/a", "https://x.example", "https://other.example/a"},
	}
	for _, tt := range tests {
		if got := site.AbsoluteURL(tt.url, tt.base); got != tt.want {
			t.Fatalf("AbsoluteURL(%q, %q) = %q, want %q", tt.url, tt.base, got, tt.want)
		}
	}
}

func manyEntries(n int) []render.Entry {
	out := make([]render.Entry, n)
	for i := range out {
		out[i] = entry("Make", fmt.Sprintf("problem %d", i))
	}
	return out
}

func TestSitemapXMLCapsAndRewrites(t *testing.T) {
	data, err := site.SitemapXML(manyEntries(site.MaxSitemapURLs+10), "https://x.example")
	if err != nil {
		t.Fatalf("SitemapXML: %v", err)
	}
	var parsed struct {
		XMLName xml.Name `xml:"urlset"`
		URLs    []struct {
			Loc string `xml:"loc"`
		} `xml:"url"`
	}
	if err := xml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(parsed.URLs) != site.MaxSitemapURLs {
		t.Fatalf("urls = %d, want %d", len(parsed.URLs), site.MaxSitemapURLs)
	}
	if parsed.URLs[0].Loc != "https://x.example/fixes/make-problem-0.html" {
		t.Fatalf("first loc = %q", parsed.URLs[0].Loc)
	}
	if !strings.Contains(string(data), `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`) {
		t.Fatal("missing sitemap namespace")
	}
}

func TestFeedXML(t *testing.T) {
	data, err := site.FeedXML(manyEntries(60), site.FeedInfo{
		Title:       "Instant Auto Fix",
		Description: "Guides & fixes",
		Link:        "./",
		Published:   buildTime,
	})
	if err != nil {
		t.Fatalf("FeedXML: %v", err)
	}
	var parsed struct {
		Version string `xml:"version,attr"`
		Channel struct {
			Title       string `xml:"title"`
			Link        string `xml:"link"`
			Description string `xml:"description"`
			Items       []struct {
				Title       string `xml:"title"`
				Link        string `xml:"link"`
				PubDate     string `xml:"pubDate"`
				Description string `xml:"description"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	if err := xml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed.Version != "2.0" || parsed.Channel.Description != "Guides & fixes" || parsed.Channel.Link != "./" {
		t.Fatalf("unexpected channel %+v", parsed.Channel)
	}
	if len(parsed.Channel.Items) != site.MaxFeedItems {
		t.Fatalf("items = %d", len(parsed.Channel.Items))
	}
	item := parsed.Channel.Items[0]
	if item.PubDate != "Sat, 09 Mar 2024 20:04:05 +0000" {
		t.Fatalf("pubDate = %q", item.PubDate)
	}
	if item.Link != "./fixes/make-problem-0.html" || item.Description != "Make — problem 0" {
		t.Fatalf("unexpected item %+v", item)
	}
}

func TestSitemapJSONEmptyList(t *testing.T) {
	data, err := site.SitemapJSON(nil)
	if err != nil {
		t.Fatalf("SitemapJSON: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Fatalf("expected empty array, got %q", data)
	}
}

func TestRobots(t *testing.T) {
	cfg := config.Default()
	if got := string(site.Robots(cfg.SiteRoot())); got != "User-agent: *\nAllow: /\nSitemap: ./sitemap.xml\n" {
		t.Fatalf("robots = %q", got)
	}
	cfg.PublicBaseURL = "https://x.example"
	if got := string(site.Robots(cfg.SiteRoot())); !strings.HasSuffix(got, "Sitemap: https://x.example/sitemap.xml\n") {
		t.Fatalf("robots = %q", got)
	}
}

func TestListingHref(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"./fixes/a.html", "../fixes/a.html"},
		{"./autofix/fixes/a.html", "../fixes/a.html"},
		{"./a/b/fixes/a.html", "../fixes/a.html"},
		{"https://x.example/fixes/a.html", "https://x.example/fixes/a.html"},
	}
	for _, tt := range tests {
		if got := site.ListingHref(tt.in); got != tt.want {
			t.Fatalf("ListingHref(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

var fixHrefPattern = regexp.MustCompile(`href="([^"]*fixes/[^"]+\.html)"`)

func TestListingLinksResolveUnderSiteBase(t *testing.T) {
	cfg := config.Default()
	cfg.SiteBaseURL = "/autofix"
	cfg.Paths.OutputDir = t.TempDir()
	templates, err := render.LoadTemplates("")
	if err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}
	renderer := render.New(&cfg, templates)
	w := site.NewWriter(&cfg, renderer, &recordingImages{}, func() time.Time { return buildTime }, logging.NewNop())

	slug := textutil.Slugify("2015 Honda Civic Won't start")
	entries := []render.Entry{{
		Title:   "2015 Honda Civic Won't start",
		URL:     renderer.SitemapURL(slug),
		Meta:    "2015 Honda Civic",
		Make:    "Honda",
		Problem: "Won't start",
	}}
	if _, err := w.WriteAll(context.Background(), entries); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	want := "/autofix/" + render.FixPath(slug)
	for _, listing := range []string{"makes/honda.html", "problems/won-t-start.html"} {
		raw, err := os.ReadFile(filepath.Join(cfg.Paths.OutputDir, filepath.FromSlash(listing)))
		if err != nil {
			t.Fatalf("read %s: %v", listing, err)
		}
		match := fixHrefPattern.FindSubmatch(raw)
		if match == nil {
			t.Fatalf("%s has no guide link:\n%s", listing, raw)
		}
		page, _ := url.Parse("https://fixes.example.com/autofix/" + listing)
		ref, err := url.Parse(string(match[1]))
		if err != nil {
			t.Fatalf("parse href %q: %v", match[1], err)
		}
		if got := page.ResolveReference(ref).Path; got != want {
			t.Fatalf("%s link %q resolves to %s, want %s", listing, match[1], got, want)
		}
	}
}

type recordingImages struct{ slugs []string }

func (r *recordingImages) Render(slug, _ string) (string, error) {
	r.slugs = append(r.slugs, slug)
	return "/tmp/" + slug + ".png", nil
}

func TestWriteAllProducesArtifacts(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.OutputDir = t.TempDir()
	templates, err := render.LoadTemplates("")
	if err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}
	renderer := render.New(&cfg, templates)
	images := &recordingImages{}
	w := site.NewWriter(&cfg, renderer, images, func() time.Time { return buildTime }, logging.NewNop())

	entries := []render.Entry{
		entry("Honda", "rough idle"),
		entry("Ford", "rough idle"),
		entry("Honda", "rough idle"),
	}
	result, err := w.WriteAll(context.Background(), entries)
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if result.Makes != 2 || result.Problems != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	// index + 2 makes + 1 problem + sitemap.json + sitemap.xml + feed + robots
	if result.Files != 8 || result.BytesWritten == 0 {
		t.Fatalf("unexpected file stats %+v", result)
	}

	out := cfg.Paths.OutputDir
	for _, name := range []string{"index.html", "makes/honda.html", "makes/ford.html", "problems/rough-idle.html", "sitemap.xml", "feed.xml", "robots.txt"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}

	var decoded []render.Entry
	raw, _ := os.ReadFile(filepath.Join(out, "sitemap.json"))
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("sitemap.json: %v", err)
	}
	if diff := cmp.Diff(entries, decoded); diff != "" {
		t.Fatalf("sitemap.json mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(string(raw), "\n  {\n    \"title\"") {
		t.Fatalf("sitemap.json not two-space indented:\n%s", raw)
	}

	honda, _ := os.ReadFile(filepath.Join(out, "makes", "honda.html"))
	if strings.Count(string(honda), `href="../fixes/honda-rough-idle.html"`) != 2 {
		t.Fatalf("duplicate entries should both be listed:\n%s", honda)
	}
	if !strings.Contains(string(honda), `content="../assets/og/make-honda.png"`) {
		t.Fatalf("listing should reference its card image:\n%s", honda)
	}

	index, _ := os.ReadFile(filepath.Join(out, "index.html"))
	for _, want := range []string{`href="./makes/honda.html"`, `href="./problems/rough-idle.html"`, ">Rough Idle<", "3 guides"} {
		if !strings.Contains(string(index), want) {
			t.Fatalf("index missing %q:\n%s", want, index)
		}
	}

	wantSlugs := []string{"instant-auto-fix", "make-honda", "make-ford", "problem-rough-idle"}
	if diff := cmp.Diff(wantSlugs, images.slugs); diff != "" {
		t.Fatalf("card images mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteAllStopsOnCancelledContext(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.OutputDir = t.TempDir()
	templates, err := render.LoadTemplates("")
	if err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}
	w := site.NewWriter(&cfg, render.New(&cfg, templates), nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := w.WriteAll(ctx, nil); err == nil {
		t.Fatal("expected context error")
	}
}
