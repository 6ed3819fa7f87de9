// Package notifications publishes build events to an ntfy topic.
//
// NewService returns a no-op implementation when no topic is configured, so
// callers can publish unconditionally. Each event kind can be switched off in
// the [notifications] config table.
package notifications
