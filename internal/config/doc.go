// Package config loads and validates terminal configuration from YAML
// files with ${VAR} environment expansion.
package config
