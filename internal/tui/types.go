package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"

	"mcpctl/internal/api"
	"mcpctl/internal/config"
	"mcpctl/internal/coordinator"
	"mcpctl/internal/history"
	"mcpctl/internal/notify"
	"mcpctl/pkg/logging"
)

// AppMode represents the current mode of the dashboard.
type AppMode int

const (
	ModeDashboard AppMode = iota
	ModeFilterInput
	ModeParamInput
	ModeHelpOverlay
	ModeQuitting
)

// Pane identifies which list has focus.
type Pane int

const (
	PaneServers Pane = iota
	PaneTools
	PaneHistory
)

// Model is the dashboard state.
type Model struct {
	// Collaborators
	Client      api.Client
	Coordinator *coordinator.Coordinator
	History     *history.Store
	Toasts      *notify.Queue
	Config      config.Config

	// Window
	Width  int
	Height int

	// Mode and focus
	CurrentMode AppMode
	FocusedPane Pane

	// Server list
	Servers        []api.Server
	ServerCursor   int
	ServersLoading bool
	ServersErr     string

	// Tools of the selected server
	ToolCursor int

	// History view
	HistoryQuery history.Query
	HistoryPage  []history.Record
	HistoryTotal int
	HistoryCur   int

	// Repo scan status
	ScanProgress *api.ScanProgress

	// Active toasts, mirrored from the queue
	ActiveToasts []notify.Toast
	toastEvents  chan []notify.Toast

	// LastLog is the most recent log line, rendered above the status bar.
	LastLog   string
	logEvents <-chan logging.LogEntry

	// DirectTools holds tools listed straight over a server's SSE
	// endpoint. Non-nil means the tools pane shows the direct view until
	// a server is selected through the backend again.
	DirectTools []api.Tool

	// Widgets
	Spinner     spinner.Model
	FilterInput textinput.Model
	ParamInput  textinput.Model
	Help        help.Model
	Keys        KeyMap

	// Tool whose parameter prompt is open
	pendingToolID string
}

// SelectedServer returns the server under the cursor, or nil.
func (m *Model) SelectedServer() *api.Server {
	if m.ServerCursor < 0 || m.ServerCursor >= len(m.Servers) {
		return nil
	}
	return &m.Servers[m.ServerCursor]
}

// visibleTools returns whatever the tools pane currently lists: the direct
// MCP view when one is active, the backend's tools otherwise.
func (m *Model) visibleTools() []api.Tool {
	if m.DirectTools != nil {
		return m.DirectTools
	}
	tools, _, _ := m.Coordinator.Tools()
	return tools
}

// SelectedTool returns the tool under the cursor, or ok=false.
func (m *Model) SelectedTool() (api.Tool, bool) {
	tools := m.visibleTools()
	if m.ToolCursor < 0 || m.ToolCursor >= len(tools) {
		return api.Tool{}, false
	}
	return tools[m.ToolCursor], true
}

// SelectedHistoryRecord returns the history row under the cursor, or nil.
func (m *Model) SelectedHistoryRecord() *history.Record {
	if m.HistoryCur < 0 || m.HistoryCur >= len(m.HistoryPage) {
		return nil
	}
	return &m.HistoryPage[m.HistoryCur]
}

// RefreshHistoryPage re-runs the history query against the store and clamps
// the cursor to the new page.
func (m *Model) RefreshHistoryPage() {
	m.HistoryPage, m.HistoryTotal = m.History.Query(m.HistoryQuery)
	if m.HistoryCur >= len(m.HistoryPage) {
		m.HistoryCur = len(m.HistoryPage) - 1
	}
	if m.HistoryCur < 0 {
		m.HistoryCur = 0
	}
}
