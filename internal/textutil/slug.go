package textutil

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Slugify converts text into a URL-safe identifier. It never fails and
// Slugify(Slugify(x)) == Slugify(x).
func Slugify(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	pendingDash := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case c >= 'A' && c <= 'Z':
			c += 'a' - 'A'
		default:
			pendingDash = true
			continue
		}
		if pendingDash && b.Len() > 0 {
			b.WriteByte('-')
		}
		pendingDash = false
		b.WriteByte(c)
	}
	return b.String()
}

var titleCaser = cases.Title(language.English, cases.NoLower)

// TitleCase upper-cases the first letter of each word and leaves the rest
// alone, so "rough idle" becomes "Rough Idle" while "BMW" stays "BMW".
func TitleCase(text string) string {
	return titleCaser.String(strings.TrimSpace(text))
}

var strictPolicy = bluemonday.StrictPolicy()

// StripMarkup removes HTML tags from operator-supplied text and trims the
// ends. Inner whitespace is kept as written. Entities are decoded back to
// plain characters because the templates escape on output.
func StripMarkup(text string) string {
	cleaned := strictPolicy.Sanitize(text)
	cleaned = htmlUnescaper.Replace(cleaned)
	return strings.TrimSpace(cleaned)
}

var htmlUnescaper = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&#34;", `"`,
	"&#39;", "'",
	"&quot;", `"`,
)
