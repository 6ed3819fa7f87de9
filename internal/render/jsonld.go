package render

import (
	"encoding/json"
	"fmt"
	"time"
)

type organization struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type techArticle struct {
	Context      string       `json:"@context"`
	Type         string       `json:"@type"`
	Headline     string       `json:"headline"`
	About        string       `json:"about"`
	Audience     string       `json:"audience"`
	Author       organization `json:"author"`
	Publisher    organization `json:"publisher"`
	Description  string       `json:"description"`
	DateModified string       `json:"dateModified"`
}

// JSONLD returns the schema.org TechArticle block for p, stamped with the
// renderer clock in UTC.
func (r *Renderer) JSONLD(p Page) (string, error) {
	org := organization{Type: "Organization", Name: r.cfg.SiteName}
	article := techArticle{
		Context:      "https://schema.org",
		Type:         "TechArticle",
		Headline:     p.Title,
		About:        p.Vehicle + " " + p.Row.Problem,
		Audience:     "DIY car owners",
		Author:       org,
		Publisher:    org,
		Description:  p.MetaDescription,
		DateModified: r.now().UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(article, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode json-ld: %w", err)
	}
	return string(data), nil
}
