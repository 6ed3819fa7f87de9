// Package preflight provides readiness checks for the paths and services a
// site build depends on.
//
// The CLI "autofix doctor" command runs RunAll and renders each Result. Checks
// for optional features (template overrides, the link cache, link shortening)
// report "Disabled" instead of failing when the feature is off.
package preflight
