// Package tui implements the mcpctl dashboard: managed MCP servers with
// their tools on the left, the execution history table with filtering,
// sorting, and pagination on the right, and transient toasts overlaid on
// top. It follows the bubbletea model/update/view split.
package tui
