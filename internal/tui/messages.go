package tui

import (
	"mcpctl/internal/api"
	"mcpctl/internal/notify"
	"mcpctl/pkg/logging"
)

// ---- Server messages ----

type ServersLoadedMsg struct {
	Servers []api.Server
	Err     error
}

type ServerLifecycleMsg struct {
	ServerID string
	Action   string // "start" or "stop"
	Server   *api.Server
	Err      error
}

// ---- Tool messages ----

type ToolsFetchedMsg struct {
	ServerID string
}

// ServerInspectedMsg is the result of listing a server's tools straight over
// its SSE endpoint, bypassing the backend.
type ServerInspectedMsg struct {
	ServerID string
	Tools    []api.Tool
	Err      error
}

type ToolExecutedMsg struct {
	ToolID string
	Result *api.ExecutionResult
	Err    error
}

// ---- Repo scan messages ----

type ScanProgressMsg struct {
	Progress *api.ScanProgress
	Err      error
}

type ScanStartedMsg struct {
	Err error
}

// ---- Toast messages ----

// ToastsChangedMsg carries the new queue snapshot after any toast mutation.
type ToastsChangedMsg struct {
	Toasts []notify.Toast
}

// ---- Log stream ----

// LogEntryMsg carries one entry from the logging channel into the UI loop.
type LogEntryMsg struct {
	Entry logging.LogEntry
}

// ---- Periodic refresh ----

type RefreshTickMsg struct{}
