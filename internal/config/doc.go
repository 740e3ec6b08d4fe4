// Package config loads the engine configuration from environment variables,
// command-line flags and an optional JSON file, merges the sources in
// priority order and validates the result.
//
// Use [GetStructuredConfig] at startup; the remaining identifiers exist for
// tests and tooling.
package config
