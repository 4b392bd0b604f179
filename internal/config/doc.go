// Package config loads, normalizes, and validates playervalue configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// PLAYERVALUE_BASE_URL and PLAYERVALUE_CHROME_PATH. Site selectors and label
// texts live here too, so a markup change on the directory side is a config
// edit rather than a rebuild.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
