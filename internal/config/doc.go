// Package config loads, validates, and normalizes the TOML configuration
// that drives the pipeline daemon.
package config
