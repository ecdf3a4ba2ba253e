package api

import (
	"encoding/json"
	"time"
)

// Server describes a managed MCP server as reported by the backend.
type Server struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	State       string `json:"state"`
	Health      string `json:"health,omitempty"`
	// URL is the server's SSE endpoint, when it exposes one. Empty for
	// servers only reachable through the backend.
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

// Server states as reported by the backend.
const (
	ServerStateRunning = "running"
	ServerStateStopped = "stopped"
	ServerStateFailed  = "failed"
)

// Tool describes a tool exposed by an MCP server. The parameter schema is
// opaque at this layer and passed through to whoever renders or validates it.
type Tool struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// ExecutionResult is the outcome of a tool execution. Output is opaque
// beyond pass-through.
type ExecutionResult struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output,omitempty"`
}

// Execution statuses.
const (
	ExecutionStatusSuccess = "success"
	ExecutionStatusError   = "error"
)

// Repo describes a repository known to the backend scanner.
type Repo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	LastScanned time.Time `json:"last_scanned,omitempty"`
}

// ScanProgress reports the state of a repository scan.
type ScanProgress struct {
	Active  bool   `json:"active"`
	Path    string `json:"path,omitempty"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Message string `json:"message,omitempty"`
}

// Percent returns scan completion in the range [0,100].
func (p ScanProgress) Percent() int {
	if p.Total <= 0 {
		return 0
	}
	pct := p.Current * 100 / p.Total
	if pct > 100 {
		pct = 100
	}
	return pct
}
