// Package builder runs one full site generation: it reads the problem table,
// classifies each row, renders its fix page with affiliate links, and hands the
// collected entries to the site writer.
//
// A build holds an exclusive lock file in the output directory so two builds
// never interleave writes, and every log line of a run carries the same run
// identifier.
package builder
