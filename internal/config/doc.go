// Package config handles configuration loading, parsing, and validation
// from defaults, an optional YAML file and CATALOG_-prefixed environment
// variables. Environment variables take precedence over the file.
package config
