// Package config loads layered mcpctl configuration: built-in defaults, the
// user config file, the project config file, then environment overrides.
// Later layers win.
package config
