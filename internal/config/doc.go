// Package config loads, normalizes, and validates aggregator configuration
// from TOML.
//
// Configuration is optional: every field has a usable default, so the tool
// runs without a config file. When a file exists at the default location (or
// one is supplied explicitly) it is decoded over the defaults, all path
// fields are tilde-expanded and made absolute, and the result is validated
// before use.
package config
