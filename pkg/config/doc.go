// Package config handles configuration management for pluglink.
// It layers embedded defaults, the user config file, the project config
// file, PLUGLINK_ environment variables and command-line overrides.
package config
