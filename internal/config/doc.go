// Package config provides environment-based configuration.
//
// Maps environment variables to the Config struct, applies defaults,
// and validates required fields and numeric ranges.
package config
