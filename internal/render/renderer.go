package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"autofix/internal/config"
	"autofix/internal/fileutil"
	"autofix/internal/textutil"
)

// FixRoot is the relative path from a fix page back to the site root.
const FixRoot = "../"

// Option customizes a Renderer.
type Option func(*Renderer)

// WithClock sets the clock used for dateModified.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// Renderer renders and writes fix pages.
type Renderer struct {
	cfg       *config.Config
	templates *Templates
	now       func() time.Time
	analytics template.HTML
}

// New builds a renderer for cfg using templates.
func New(cfg *config.Config, templates *Templates, opts ...Option) *Renderer {
	r := &Renderer{
		cfg:       cfg,
		templates: templates,
		now:       time.Now,
		analytics: AnalyticsSnippet(cfg.AnalyticsGoogleTag, cfg.AnalyticsCloudflareToken),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Templates returns the template set the renderer was built with.
func (r *Renderer) Templates() *Templates {
	return r.templates
}

// PageURL is the page address used when no public base URL is configured.
func (r *Renderer) PageURL(slug string) string {
	if r.cfg.SiteBaseURL != "" {
		return r.cfg.SiteBaseURL + "/" + FixPath(slug)
	}
	return "./" + FixPath(slug)
}

// PublicURL returns the absolute page URL, or "" without a public base URL.
func (r *Renderer) PublicURL(slug string) string {
	if r.cfg.PublicBaseURL == "" {
		return ""
	}
	return r.cfg.PublicBaseURL + "/" + FixPath(slug)
}

// SitemapURL returns the URL recorded in sitemap entries. It always starts
// with "." so aggregators can rewrite it against the public base URL.
func (r *Renderer) SitemapURL(slug string) string {
	if r.cfg.SiteBaseURL != "" {
		return "." + r.cfg.SiteBaseURL + "/" + FixPath(slug)
	}
	return "./" + FixPath(slug)
}

// AssetURL returns the og:image reference for a site-relative asset path as
// seen from a page at root. Crawlers need absolute URLs, so the public base
// URL wins when set.
func (r *Renderer) AssetURL(root, assetPath string) string {
	switch {
	case r.cfg.PublicBaseURL != "":
		return r.cfg.PublicBaseURL + "/" + assetPath
	case r.cfg.SiteBaseURL != "":
		return r.cfg.SiteBaseURL + "/" + assetPath
	default:
		return root + assetPath
	}
}

// Entry returns the sitemap entry for p.
func (r *Renderer) Entry(p Page) Entry {
	return Entry{
		Title:   p.Title,
		URL:     r.SitemapURL(p.Slug),
		Meta:    p.Summary(),
		Make:    p.Row.Make,
		Problem: p.Row.Problem,
	}
}

// Head returns the markup shared by every page head: analytics, stylesheet
// link and social card meta.
func (r *Renderer) Head(root, ogImage string) template.HTML {
	var b strings.Builder
	if r.analytics != "" {
		b.WriteString(string(r.analytics))
		b.WriteString("\n")
	}
	b.WriteString(`<link rel="stylesheet" href="` + template.HTMLEscapeString(root) + `assets/style.css">`)
	if ogImage != "" {
		b.WriteString("\n" + `<meta property="og:image" content="` + template.HTMLEscapeString(ogImage) + `">`)
	}
	b.WriteString("\n" + `<meta name="twitter:card" content="summary_large_image">`)
	return template.HTML(b.String())
}

// Render executes the page template for p.
func (r *Renderer) Render(p Page) ([]byte, error) {
	data, err := r.pageData(p)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.templates.Page.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", p.Slug, err)
	}
	return buf.Bytes(), nil
}

// Write renders p into outputDir/fixes/<slug>.html, replacing any existing
// file. It returns the written path and byte count.
func (r *Renderer) Write(outputDir string, p Page) (string, int, error) {
	html, err := r.Render(p)
	if err != nil {
		return "", 0, err
	}
	path := filepath.Join(outputDir, filepath.FromSlash(FixPath(p.Slug)))
	if err := fileutil.WriteAtomic(path, html); err != nil {
		return "", 0, fmt.Errorf("write page %s: %w", path, err)
	}
	return path, len(html), nil
}

// RelatedLink is one entry of the related searches list.
type RelatedLink struct {
	Text string
	Href string
}

// PageData is the value handed to page.html.
type PageData struct {
	Title           string
	MetaDescription string
	HeadCommon      template.HTML
	JSONLD          template.JS
	H1              string
	Year            string
	Make            string
	Model           string
	Problem         string
	Causes          []string
	Diagnostic      []string
	Parts           []PartLinks
	FixSteps        []string
	Related         []RelatedLink
	SiteName        string
	MechanicCTAURL  string
	ContactEmail    string
	MakeSlug        string
	ProblemSlug     string
	ShareURL        string
	ShareURLEncoded template.URL
	ShareText       template.URL
	CausesJS        template.JS
	PartsJS         template.JS
	Root            string
	OGImage         string
	BrandColor      template.CSS
	AccentColor     template.CSS
}

// PartLinks is the template view of one part's retailer links.
type PartLinks struct {
	Label       string
	AmazonURL   string
	EbayURL     string
	CarpartsURL string
}

func (r *Renderer) pageData(p Page) (PageData, error) {
	jsonLD, err := r.JSONLD(p)
	if err != nil {
		return PageData{}, err
	}
	causesJS, err := json.Marshal(p.Bundle.Causes)
	if err != nil {
		return PageData{}, fmt.Errorf("encode causes: %w", err)
	}
	partsJS, err := json.Marshal(p.Links)
	if err != nil {
		return PageData{}, fmt.Errorf("encode parts: %w", err)
	}

	parts := make([]PartLinks, len(p.Links))
	for i, l := range p.Links {
		parts[i] = PartLinks{Label: l.Label, AmazonURL: l.AmazonURL, EbayURL: l.EbayURL, CarpartsURL: l.CarpartsURL}
	}
	related := make([]RelatedLink, len(p.Bundle.RelatedQueries))
	for i, q := range p.Bundle.RelatedQueries {
		related[i] = RelatedLink{Text: q, Href: FixRoot + FixPath(textutil.Slugify(q))}
	}

	return PageData{
		Title:           p.Title,
		MetaDescription: p.MetaDescription,
		HeadCommon:      r.Head(FixRoot, p.OGImage),
		JSONLD:          template.JS(jsonLD),
		H1:              p.H1,
		Year:            p.Row.Year,
		Make:            p.Row.Make,
		Model:           p.Row.Model,
		Problem:         p.Row.Problem,
		Causes:          p.Bundle.Causes,
		Diagnostic:      p.Bundle.DiagnosticSteps,
		Parts:           parts,
		FixSteps:        p.Bundle.FixSteps,
		Related:         related,
		SiteName:        r.cfg.SiteName,
		MechanicCTAURL:  r.cfg.MechanicCTAURL,
		ContactEmail:    r.cfg.ContactEmail,
		MakeSlug:        textutil.Slugify(p.Row.Make),
		ProblemSlug:     textutil.Slugify(p.Row.Problem),
		ShareURL:        p.ShareURL,
		ShareURLEncoded: template.URL(url.QueryEscape(p.ShareURL)),
		ShareText:       template.URL(url.QueryEscape(p.Title)),
		CausesJS:        template.JS(causesJS),
		PartsJS:         template.JS(partsJS),
		Root:            FixRoot,
		OGImage:         p.OGImage,
		BrandColor:      cssColor(r.cfg.BrandColor, "#0f172a"),
		AccentColor:     cssColor(r.cfg.AccentColor, "#22c55e"),
	}, nil
}

func cssColor(value, fallback string) template.CSS {
	c, ok := textutil.ParseHexColor(value)
	if !ok {
		return template.CSS(fallback)
	}
	return template.CSS(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
