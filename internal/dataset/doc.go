// Package dataset reads the vehicle problem table that drives a build.
//
// The input is CSV with a header row naming the year, make, model and problem
// columns in any order. Cells are trimmed and any pasted HTML is stripped so
// templates only ever see plain text.
package dataset
