// Package textutil provides text helpers shared by the generator: URL slugs,
// display casing, markup stripping for operator-supplied cells, and
// token fingerprints for fuzzy symptom comparison.
//
// Slugify is the single source of truth for every slug the site emits (page
// files, make and problem listings, OG image names), so its output rules are
// fixed: ASCII letters and digits survive, every other run of characters
// becomes one hyphen, and the result is lower-cased with no edge hyphens.
package textutil
