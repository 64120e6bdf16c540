// Package logging configures structured slog output for loom.
//
// Two formats are supported: "console" (timestamp LEVEL component: message
// key=value ...) for interactive use and "json" for machine consumption.
// Standardized field keys keep per-corpus pipeline logs greppable.
package logging
