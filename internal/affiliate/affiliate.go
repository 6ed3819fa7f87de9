package affiliate

import (
	"context"
	"net/url"
	"strings"

	"autofix/internal/config"
	"autofix/internal/shortener"
)

// LinkSet holds the three retailer links for one part.
type LinkSet struct {
	Label       string `json:"label"`
	AmazonURL   string `json:"amazon"`
	EbayURL     string `json:"ebay"`
	CarpartsURL string `json:"carparts"`
}

// IDs are the operator's affiliate identifiers.
type IDs struct {
	AmazonTag   string
	EbayCID     string
	CarpartsPID string
}

// Builder produces LinkSets and passes every URL through a shortener.
type Builder struct {
	ids       IDs
	shortener shortener.Shortener
}

// NewBuilder returns a builder for ids. A nil shortener leaves URLs long.
func NewBuilder(ids IDs, s shortener.Shortener) *Builder {
	if s == nil {
		s = shortener.Noop{}
	}
	return &Builder{ids: ids, shortener: s}
}

// NewFromConfig reads the affiliate identifiers from cfg.
func NewFromConfig(cfg *config.Config, s shortener.Shortener) *Builder {
	return NewBuilder(IDs{
		AmazonTag:   cfg.AmazonTag,
		EbayCID:     cfg.EbayCID,
		CarpartsPID: cfg.CarpartsPID,
	}, s)
}

// Query is the search text sent to every retailer.
func Query(year, carMake, model, part string) string {
	return strings.Join([]string{year, carMake, model, part}, " ")
}

// AmazonURL returns the Amazon search URL for query.
func AmazonURL(query, tag string) string {
	return "https://www.amazon.com/s?k=" + url.QueryEscape(query) + "&tag=" + url.QueryEscape(tag)
}

// EbayURL returns the eBay search URL for query.
func EbayURL(query, campaignID string) string {
	return "https://www.ebay.com/sch/i.html?_nkw=" + url.QueryEscape(query) + "&campid=" + url.QueryEscape(campaignID)
}

// CarpartsURL returns the CarParts.com search URL for query.
func CarpartsURL(query, pid string) string {
	return "https://www.carparts.com/search?q=" + url.QueryEscape(query) + "&pid=" + url.QueryEscape(pid)
}

// Build returns the links for one part of one vehicle.
func (b *Builder) Build(ctx context.Context, year, carMake, model, part string) LinkSet {
	query := Query(year, carMake, model, part)
	return LinkSet{
		Label:       part,
		AmazonURL:   b.shortener.Shorten(ctx, AmazonURL(query, b.ids.AmazonTag)),
		EbayURL:     b.shortener.Shorten(ctx, EbayURL(query, b.ids.EbayCID)),
		CarpartsURL: b.shortener.Shorten(ctx, CarpartsURL(query, b.ids.CarpartsPID)),
	}
}

// BuildAll returns one LinkSet per part, in order.
func (b *Builder) BuildAll(ctx context.Context, year, carMake, model string, parts []string) []LinkSet {
	out := make([]LinkSet, 0, len(parts))
	for _, part := range parts {
		out = append(out, b.Build(ctx, year, carMake, model, part))
	}
	return out
}

// Shorten exposes the builder's shortener for page share links.
func (b *Builder) Shorten(ctx context.Context, longURL string) string {
	return b.shortener.Shorten(ctx, longURL)
}
