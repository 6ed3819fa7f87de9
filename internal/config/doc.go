// Package config loads, normalizes, and validates autofix configuration data.
//
// A configuration file is either TOML (the native format) or YAML (.yml/.yaml)
// with the same keys. Site-wide settings such as site_name and the affiliate
// identifiers live at the top level; paths, build tuning, and logging live in
// their own sections. Relative paths are resolved against the directory that
// holds the configuration file, and a .env file beside it is loaded before
// environment fallbacks such as BITLY_TOKEN are applied.
//
// The returned *Config is treated as immutable after Load: construct it once at
// startup and pass it to the components that need it.
package config
