// Package config loads, normalizes, and validates cinefill configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// REGISTRY_API_KEY and ARCHIVE_API_KEY. The Config type centralizes the
// catalog location, both external provider endpoints, and the match
// thresholds so the backfill services are wired from one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
