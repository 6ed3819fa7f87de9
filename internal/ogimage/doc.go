// Package ogimage renders Open Graph preview images for generated pages.
//
// New selects the implementation once per build: a PNG renderer when preview
// images are enabled, otherwise a no-op that writes nothing. Callers reference
// an image only when Render returns a non-empty path.
package ogimage
