// Package config loads, normalizes, and validates filmdash configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TMDB_API_KEY and FILMDASH_EXPORT_DIR. The Config type centralizes every knob
// the CLI and HTTP surface need, so the export root, the preference store, and
// external service endpoints are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
