// Package classify maps free-text vehicle symptoms to canned diagnostic content.
//
// Matching walks an explicit, ordered rule table and returns the first rule
// whose predicate accepts the lower-cased problem text; text that no rule
// accepts gets the fallback bundle. Order matters: broad substrings such as
// "ac" or "abs" sit where they do on purpose, and later rules only see text
// that every earlier rule rejected.
package classify
