package api

import "errors"

// Common errors for API operations
var (
	ErrNoBaseURL      = errors.New("no backend base URL configured")
	ErrServerNotFound = errors.New("MCP server not found")
	ErrToolNotFound   = errors.New("tool not found")
)
