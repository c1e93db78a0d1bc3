// Package config loads, normalizes, and validates chordserve configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CHORDSERVE_API_KEYS. The Config type centralizes every knob the server and
// CLI need, so bind addresses, conversion limits, and the API key set are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical option values, and clear validation errors.
// Validation is deliberately strict about authentication: an empty key set
// without the explicit open_mode flag refuses to load, so a service can never
// start accidentally open.
package config
