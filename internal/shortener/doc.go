// Package shortener rewrites long affiliate and share URLs through a URL
// shortening service.
//
// Shortening is best effort: every failure path returns the input URL
// unchanged, so a build never fails because the service is slow or down.
// NewFromConfig selects the no-op implementation when shortening is disabled
// or no token is configured.
package shortener
