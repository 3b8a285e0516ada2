// Package config loads, normalizes, and validates forcealign configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// FORCEALIGN_LOG_LEVEL. The Config type centralizes every knob the aligner,
// the HTTP API, and the CLI need, so alignment policy (interpolation method,
// space-less languages, sentence abbreviations) is discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical method names, and clear validation errors.
package config
