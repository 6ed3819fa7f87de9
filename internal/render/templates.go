package render

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed templates/*
var defaultFS embed.FS

const (
	pageTemplate    = "page.html"
	indexTemplate   = "index.html"
	listingTemplate = "listing.html"
	stylesheetName  = "style.css"
)

// TemplateFiles lists every file a templates directory may override.
var TemplateFiles = []string{pageTemplate, indexTemplate, listingTemplate, stylesheetName}

// Templates holds the parsed page templates and the stylesheet.
type Templates struct {
	Page    *template.Template
	Index   *template.Template
	Listing *template.Template

	stylesheet     []byte
	stylesheetPath string
	sources        map[string]string
}

// LoadTemplates parses the embedded defaults, replacing each one that dir
// provides. An empty dir uses only the defaults.
func LoadTemplates(dir string) (*Templates, error) {
	t := &Templates{sources: make(map[string]string, 4)}
	var err error
	if t.Page, err = t.parse(dir, pageTemplate); err != nil {
		return nil, err
	}
	if t.Index, err = t.parse(dir, indexTemplate); err != nil {
		return nil, err
	}
	if t.Listing, err = t.parse(dir, listingTemplate); err != nil {
		return nil, err
	}

	data, source, err := readTemplate(dir, stylesheetName)
	if err != nil {
		return nil, err
	}
	t.stylesheet = data
	t.sources[stylesheetName] = source
	if source != "embedded" {
		t.stylesheetPath = source
	}
	return t, nil
}

// Stylesheet returns the CSS copied to assets/style.css.
func (t *Templates) Stylesheet() []byte {
	return t.stylesheet
}

// StylesheetPath returns the override file when one was supplied.
func (t *Templates) StylesheetPath() string {
	return t.stylesheetPath
}

// Source reports where a template was loaded from: a file path or "embedded".
func (t *Templates) Source(name string) string {
	return t.sources[name]
}

func (t *Templates) parse(dir, name string) (*template.Template, error) {
	data, source, err := readTemplate(dir, name)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", source, err)
	}
	t.sources[name] = source
	return tmpl, nil
}

func readTemplate(dir, name string) ([]byte, string, error) {
	if strings.TrimSpace(dir) != "" {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err == nil {
			return data, path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("read template %s: %w", path, err)
		}
	}
	data, err := defaultFS.ReadFile("templates/" + name)
	if err != nil {
		return nil, "", fmt.Errorf("read embedded template %s: %w", name, err)
	}
	return data, "embedded", nil
}
