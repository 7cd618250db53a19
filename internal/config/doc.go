// Package config loads and validates quoter configuration from YAML
// files, with environment variable expansion and layered defaults.
package config
