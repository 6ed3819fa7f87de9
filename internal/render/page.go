package render

import (
	"strings"

	"autofix/internal/affiliate"
	"autofix/internal/classify"
	"autofix/internal/dataset"
	"autofix/internal/textutil"
)

// Page is everything known about one generated fix page.
type Page struct {
	Row             dataset.Row
	Vehicle         string
	Title           string
	MetaDescription string
	H1              string
	Slug            string
	Bundle          classify.Bundle
	Links           []affiliate.LinkSet

	// ShareURL is the (possibly shortened) URL readers are asked to share.
	ShareURL string
	// OGImage is the og:image reference, empty when no image was written.
	OGImage string
}

// Entry is one sitemap record. Entries are appended once per row and never
// mutated.
type Entry struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Meta    string `json:"meta"`
	Make    string `json:"make"`
	Problem string `json:"problem"`
}

// NewPage derives the page text for row. Links, ShareURL and OGImage are
// filled in by the caller.
func NewPage(row dataset.Row, bundle classify.Bundle) Page {
	vehicle := row.Vehicle()
	return Page{
		Row:             row,
		Vehicle:         vehicle,
		Title:           vehicle + " — " + row.Problem + " (Instant Fix Guide)",
		MetaDescription: "DIY diagnostic steps, likely causes, and parts for " + vehicle + " with '" + strings.ToLower(row.Problem) + "'. ",
		H1:              vehicle + ": " + row.Problem + " — Quick DIY Guide",
		Slug:            textutil.Slugify(vehicle + " " + row.Problem),
		Bundle:          bundle,
	}
}

// Summary is the short vehicle and problem line used by listings and feeds.
func (p Page) Summary() string {
	return p.Vehicle + " — " + p.Row.Problem
}

// FixPath returns the page location relative to the site root.
func FixPath(slug string) string {
	return "fixes/" + slug + ".html"
}

// OGPath returns the preview image location relative to the site root.
func OGPath(slug string) string {
	return "assets/og/" + slug + ".png"
}
