// Package config loads, normalizes, and validates cliptag configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENAI_API_KEY. The Config type centralizes every knob the server and CLI
// need, so storage directories, AI credentials, and the analysis random
// source are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
