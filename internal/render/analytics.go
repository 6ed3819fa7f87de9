package render

import (
	"html/template"
	"strings"
)

// AnalyticsSnippet returns the Google tag and Cloudflare beacon scripts for
// the configured identifiers, or "" when neither is set.
func AnalyticsSnippet(googleTag, cloudflareToken string) template.HTML {
	var bits []string
	if googleTag != "" {
		tag := template.HTMLEscapeString(googleTag)
		bits = append(bits,
			`<script async src="https://www.googletagmanager.com/gtag/js?id=`+tag+`"></script>`,
			`<script>window.dataLayer = window.dataLayer || []; function gtag(){dataLayer.push(arguments);} gtag('js', new Date()); gtag('config', '`+template.JSEscapeString(googleTag)+`');</script>`,
		)
	}
	if cloudflareToken != "" {
		token := template.HTMLEscapeString(template.JSEscapeString(cloudflareToken))
		bits = append(bits,
			`<script defer src="https://static.cloudflareinsights.com/beacon.min.js" data-cf-beacon='{"token":"`+token+`"}'></script>`,
		)
	}
	return template.HTML(strings.Join(bits, "\n"))
}
