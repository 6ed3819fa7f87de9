package ogimage

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"autofix/internal/config"
	"autofix/internal/fileutil"
	"autofix/internal/textutil"
)

const (
	// Width and Height follow the Open Graph recommended card size.
	Width  = 1200
	Height = 630

	margin      = 60
	titleSize   = 64
	siteSize    = 30
	lineHeight  = 70
	wrapColumns = 28
	maxLines    = 6
)

var defaultBackground = color.RGBA{R: 0x0f, G: 0x17, B: 0x2a, A: 0xff}

// Renderer writes a preview image for slug and returns its path, or "" when
// nothing was written.
type Renderer interface {
	Render(slug, title string) (string, error)
}

// Noop never writes an image.
type Noop struct{}

func (Noop) Render(string, string) (string, error) { return "", nil }

// New returns the PNG renderer when cfg enables preview images, otherwise Noop.
func New(cfg *config.Config) (Renderer, error) {
	if cfg == nil || !cfg.Build.OGImages {
		return Noop{}, nil
	}
	return NewPNG(filepath.Join(cfg.Paths.OutputDir, "assets", "og"), cfg.SiteName, cfg.BrandColor)
}

// PNG draws white text on a solid brand-coloured card.
type PNG struct {
	dir        string
	siteName   string
	background color.RGBA
	titleFace  font.Face
	siteFace   font.Face
}

// NewPNG prepares fonts for rendering into dir. An unparseable brandColor
// falls back to the default brand colour.
func NewPNG(dir, siteName, brandColor string) (*PNG, error) {
	titleFace, err := loadFace(gobold.TTF, titleSize)
	if err != nil {
		return nil, err
	}
	siteFace, err := loadFace(goregular.TTF, siteSize)
	if err != nil {
		return nil, err
	}
	bg, ok := textutil.ParseHexColor(brandColor)
	if !ok {
		bg = defaultBackground
	}
	return &PNG{
		dir:        dir,
		siteName:   siteName,
		background: bg,
		titleFace:  titleFace,
		siteFace:   siteFace,
	}, nil
}

func loadFace(ttf []byte, size float64) (font.Face, error) {
	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}

// Render writes <dir>/<slug>.png.
func (p *PNG) Render(slug, title string) (string, error) {
	img := p.Draw(title)
	path := filepath.Join(p.dir, slug+".png")
	err := fileutil.WriteAtomicFunc(path, func(w io.Writer) error {
		return png.Encode(w, img)
	})
	if err != nil {
		return "", fmt.Errorf("write og image %s: %w", path, err)
	}
	return path, nil
}

// Draw renders the card in memory.
func (p *PNG) Draw(title string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(p.background), image.Point{}, draw.Src)

	drawer := &font.Drawer{Dst: img, Src: image.White, Face: p.siteFace}
	drawer.Dot = fixed.P(margin, margin+siteSize)
	drawer.DrawString(p.siteName)

	drawer.Face = p.titleFace
	y := margin + 60 + titleSize
	for _, line := range Wrap(title, wrapColumns, maxLines) {
		drawer.Dot = fixed.P(margin, y)
		drawer.DrawString(line)
		y += lineHeight
	}
	return img
}

// Wrap breaks text into lines of at most width runes, splitting words longer
// than width, and keeps the first maxLines lines.
func Wrap(text string, width, maxLines int) []string {
	var lines []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			lines = append(lines, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, word := range strings.Fields(text) {
		for utf8.RuneCountInString(word) > width {
			flush()
			runes := []rune(word)
			lines = append(lines, string(runes[:width]))
			word = string(runes[width:])
		}
		wordLen := utf8.RuneCountInString(word)
		if wordLen == 0 {
			continue
		}
		if currentLen > 0 && currentLen+1+wordLen > width {
			flush()
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(word)
		currentLen += wordLen
	}
	flush()

	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
