// Package render turns classified rows into HTML pages.
//
// Templates are Go html/template files. Defaults are embedded in the binary
// and an operator may override any of page.html, index.html, listing.html
// or style.css from a templates directory. A template that references a field
// the renderer does not supply fails at execution time, and that error aborts
// the build.
//
// Page text formats (title, meta description, H1, slug) are fixed here so the
// sitemap, feed and listing pages agree with what each page says about itself.
package render
