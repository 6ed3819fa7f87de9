// Package logging assembles structured slog loggers used across autofix.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so a build's run ID and the current
// page slug are attached to every line emitted during that build. A no-op
// logger is provided for tests and wiring code that cannot fail.
package logging
