// Package config loads, normalizes, and validates loom configuration.
// Defaults live in code; an optional TOML file overrides them. All path
// fields in a loaded Config are absolute.
package config
