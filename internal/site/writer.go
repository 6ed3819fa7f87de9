package site

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"autofix/internal/config"
	"autofix/internal/fileutil"
	"autofix/internal/logging"
	"autofix/internal/ogimage"
	"autofix/internal/render"
	"autofix/internal/textutil"
)

// listingRoot is the relative path from a listing page back to the site root.
const listingRoot = "../"

// Result summarizes what WriteAll produced.
type Result struct {
	Makes        int
	Problems     int
	Files        int
	BytesWritten int64
}

// Writer emits the site-level artifacts into the output directory.
type Writer struct {
	cfg       *config.Config
	renderer  *render.Renderer
	images    ogimage.Renderer
	outputDir string
	now       func() time.Time
	logger    *slog.Logger
	result    Result
}

// NewWriter builds a writer. images may be nil to skip preview cards.
func NewWriter(cfg *config.Config, renderer *render.Renderer, images ogimage.Renderer, now func() time.Time, logger *slog.Logger) *Writer {
	if images == nil {
		images = ogimage.Noop{}
	}
	if now == nil {
		now = time.Now
	}
	return &Writer{
		cfg:       cfg,
		renderer:  renderer,
		images:    images,
		outputDir: cfg.Paths.OutputDir,
		now:       now,
		logger:    logging.NewComponentLogger(logger, "site"),
	}
}

// WriteAll aggregates entries and writes every site-level file.
func (w *Writer) WriteAll(ctx context.Context, entries []render.Entry) (Result, error) {
	w.result = Result{}
	index := Aggregate(entries)
	w.result.Makes = len(index.ByMake)
	w.result.Problems = len(index.ByProblem)

	steps := []struct {
		name string
		fn   func(Index) error
	}{
		{"index", w.writeIndex},
		{"make listings", w.writeMakeListings},
		{"problem listings", w.writeProblemListings},
		{"sitemap.json", w.writeSitemapJSON},
		{"sitemap.xml", w.writeSitemapXML},
		{"feed.xml", w.writeFeed},
		{"robots.txt", w.writeRobots},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return w.result, err
		}
		if err := step.fn(index); err != nil {
			return w.result, fmt.Errorf("write %s: %w", step.name, err)
		}
	}

	w.logger.Info("site artifacts written",
		logging.Int("entries", len(entries)),
		logging.Int("makes", w.result.Makes),
		logging.Int("problems", w.result.Problems),
		logging.Int("files", w.result.Files),
	)
	return w.result, nil
}

// GroupLink is an index page link to one listing page.
type GroupLink struct {
	Name  string
	Href  string
	Count int
}

// IndexData is the value handed to index.html.
type IndexData struct {
	SiteName        string
	SiteDescription string
	HeadCommon      template.HTML
	PageCount       int
	Makes           []GroupLink
	Problems        []GroupLink
}

// ListingItem is one card on a listing page.
type ListingItem struct {
	Title string
	Href  string
	Meta  string
}

// ListingData is the value handed to listing.html.
type ListingData struct {
	SiteName    string
	Title       string
	Description string
	Heading     string
	HeadCommon  template.HTML
	Root        string
	Items       []ListingItem
}

func (w *Writer) writeIndex(index Index) error {
	og, err := w.cardImage("./", textutil.Slugify(w.cfg.SiteName), w.cfg.SiteName)
	if err != nil {
		return err
	}
	data := IndexData{
		SiteName:        w.cfg.SiteName,
		SiteDescription: w.cfg.SiteDescription,
		HeadCommon:      w.renderer.Head("./", og),
		PageCount:       len(index.Entries),
		Makes:           groupLinks(index.ByMake, "makes/", false),
		Problems:        groupLinks(index.ByProblem, "problems/", true),
	}
	return w.execute(w.renderer.Templates().Index, data, "index.html")
}

func (w *Writer) writeMakeListings(index Index) error {
	for _, group := range index.ByMake {
		og, err := w.cardImage(listingRoot, "make-"+group.Slug, group.Name+" — Common Problems and DIY Fixes")
		if err != nil {
			return err
		}
		data := ListingData{
			SiteName:    w.cfg.SiteName,
			Title:       w.cfg.SiteName + " — " + group.Name + " Issues",
			Description: "Common issues and fixes for " + group.Name + " models.",
			Heading:     group.Name + " — Common Problems and DIY Fixes",
			HeadCommon:  w.renderer.Head(listingRoot, og),
			Root:        listingRoot,
			Items:       listingItems(group.Entries),
		}
		if err := w.execute(w.renderer.Templates().Listing, data, "makes", group.Slug+".html"); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeProblemListings(index Index) error {
	for _, group := range index.ByProblem {
		og, err := w.cardImage(listingRoot, "problem-"+group.Slug, "Fixes for: "+group.Name)
		if err != nil {
			return err
		}
		data := ListingData{
			SiteName:    w.cfg.SiteName,
			Title:       w.cfg.SiteName + " — Fixes for " + group.Name,
			Description: "Guides for " + group.Name + " across many vehicles.",
			Heading:     "Fixes for: " + group.Name,
			HeadCommon:  w.renderer.Head(listingRoot, og),
			Root:        listingRoot,
			Items:       listingItems(group.Entries),
		}
		if err := w.execute(w.renderer.Templates().Listing, data, "problems", group.Slug+".html"); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeSitemapJSON(index Index) error {
	data, err := SitemapJSON(index.Entries)
	if err != nil {
		return err
	}
	return w.write(data, "sitemap.json")
}

func (w *Writer) writeSitemapXML(index Index) error {
	data, err := SitemapXML(index.Entries, w.cfg.PublicBaseURL)
	if err != nil {
		return err
	}
	return w.write(data, "sitemap.xml")
}

func (w *Writer) writeFeed(index Index) error {
	data, err := FeedXML(index.Entries, FeedInfo{
		Title:       w.cfg.SiteName,
		Description: w.cfg.SiteDescription,
		Link:        w.cfg.SiteRoot(),
		PublicBase:  w.cfg.PublicBaseURL,
		Published:   w.now(),
	})
	if err != nil {
		return err
	}
	return w.write(data, "feed.xml")
}

func (w *Writer) writeRobots(Index) error {
	return w.write(Robots(w.cfg.SiteRoot()), "robots.txt")
}

func (w *Writer) cardImage(root, slug, title string) (string, error) {
	path, err := w.images.Render(slug, title)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", nil
	}
	return w.renderer.AssetURL(root, render.OGPath(slug)), nil
}

func (w *Writer) execute(tmpl *template.Template, data any, elems ...string) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render %s: %w", filepath.Join(elems...), err)
	}
	return w.write(buf.Bytes(), elems...)
}

func (w *Writer) write(data []byte, elems ...string) error {
	path := filepath.Join(append([]string{w.outputDir}, elems...)...)
	if err := fileutil.WriteAtomic(path, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.result.Files++
	w.result.BytesWritten += int64(len(data))
	return nil
}

func groupLinks(groups []Group, dir string, titleCase bool) []GroupLink {
	links := make([]GroupLink, len(groups))
	for i, g := range groups {
		name := g.Name
		if titleCase {
			name = textutil.TitleCase(name)
		}
		links[i] = GroupLink{Name: name, Href: "./" + dir + g.Slug + ".html", Count: len(g.Entries)}
	}
	return links
}

func listingItems(entries []render.Entry) []ListingItem {
	items := make([]ListingItem, len(entries))
	for i, e := range entries {
		items[i] = ListingItem{Title: e.Title, Href: ListingHref(e.URL), Meta: e.Meta}
	}
	return items
}

// ListingHref converts a sitemap URL into a link that resolves from a page one
// directory below the site root. Listing pages already live under any
// configured site base, so the base segment is dropped along with the "./".
func ListingHref(entryURL string) string {
	if i := strings.LastIndex(entryURL, "/fixes/"); i >= 0 && strings.HasPrefix(entryURL, ".") {
		return listingRoot + entryURL[i+1:]
	}
	return entryURL
}
