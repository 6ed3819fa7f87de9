// Package main hosts the autofix CLI entrypoint and command graph.
//
// The Cobra-based command tree builds the static site, previews it, and
// exposes the classifier, affiliate link builder and link cache for
// inspection. Configuration is resolved once per invocation in
// commandContext so subcommands only deal with presentation.
//
// Keep this package lean: new behaviour belongs in the internal packages and
// is surfaced here through a dedicated command or flag.
package main
