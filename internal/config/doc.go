// Package config loads, normalizes, and validates tubewatch configuration.
//
// Settings come from an optional TOML file with environment variables layered
// on top, plus an optional secrets-manager overlay for credentials. Load does
// not validate so the caller can hydrate secrets before calling Validate.
package config
