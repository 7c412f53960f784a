// Package config loads and validates the service configuration from a
// YAML file, with the service credential taken from the environment.
package config
