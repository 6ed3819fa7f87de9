package site

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"autofix/internal/render"
)

const (
	// MaxSitemapURLs caps sitemap.xml at the first entries.
	MaxSitemapURLs = 5000
	// MaxFeedItems caps feed.xml at the first entries.
	MaxFeedItems = 50

	sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"
)

// AbsoluteURL rewrites a "."-prefixed entry URL against publicBase. Other
// URLs, or any URL when publicBase is empty, are returned unchanged.
func AbsoluteURL(entryURL, publicBase string) string {
	if publicBase != "" && strings.HasPrefix(entryURL, ".") {
		return publicBase + entryURL[1:]
	}
	return entryURL
}

// SitemapJSON encodes the full entry list with two-space indentation.
func SitemapJSON(entries []render.Entry) ([]byte, error) {
	if entries == nil {
		entries = []render.Entry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("encode sitemap.json: %w", err)
	}
	return buf.Bytes(), nil
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// SitemapXML encodes at most MaxSitemapURLs entries as a sitemaps.org urlset.
func SitemapXML(entries []render.Entry, publicBase string) ([]byte, error) {
	set := urlSet{Xmlns: sitemapNamespace}
	for _, entry := range head(entries, MaxSitemapURLs) {
		set.URLs = append(set.URLs, sitemapURL{Loc: AbsoluteURL(entry.URL, publicBase)})
	}
	return encodeXML(set, "sitemap.xml")
}

type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
}

// FeedInfo describes the RSS channel.
type FeedInfo struct {
	Title       string
	Description string
	Link        string
	PublicBase  string
	Published   time.Time
}

// FeedXML encodes at most MaxFeedItems entries as an RSS 2.0 feed. Every item
// carries the build time as its pubDate.
func FeedXML(entries []render.Entry, info FeedInfo) ([]byte, error) {
	pubDate := info.Published.UTC().Format(time.RFC1123Z)
	feed := rss{
		Version: "2.0",
		Channel: rssChannel{
			Title:       info.Title,
			Link:        info.Link,
			Description: info.Description,
		},
	}
	for _, entry := range head(entries, MaxFeedItems) {
		feed.Channel.Items = append(feed.Channel.Items, rssItem{
			Title:       entry.Title,
			Link:        AbsoluteURL(entry.URL, info.PublicBase),
			PubDate:     pubDate,
			Description: entry.Meta,
		})
	}
	return encodeXML(feed, "feed.xml")
}

// Robots returns robots.txt pointing crawlers at root + "sitemap.xml".
func Robots(root string) []byte {
	return []byte("User-agent: *\nAllow: /\nSitemap: " + root + "sitemap.xml\n")
}

func encodeXML(v any, name string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func head(entries []render.Entry, n int) []render.Entry {
	if len(entries) > n {
		return entries[:n]
	}
	return entries
}
