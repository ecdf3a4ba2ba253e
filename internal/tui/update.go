package tui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"mcpctl/internal/api"
	"mcpctl/internal/history"
	"mcpctl/internal/notify"
	"mcpctl/pkg/logging"
)

// Update handles all dashboard messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case ServersLoadedMsg:
		m.ServersLoading = false
		if msg.Err != nil {
			m.ServersErr = msg.Err.Error()
			m.Toasts.Notify("Failed to load servers", msg.Err.Error(), notify.VariantDestructive)
			return m, nil
		}
		m.ServersErr = ""
		m.Servers = msg.Servers
		if m.ServerCursor >= len(m.Servers) {
			m.ServerCursor = len(m.Servers) - 1
		}
		if m.ServerCursor < 0 {
			m.ServerCursor = 0
		}
		return m, nil

	case ServerLifecycleMsg:
		if msg.Err != nil {
			m.Toasts.Notify(
				fmt.Sprintf("Failed to %s server", msg.Action),
				msg.Err.Error(),
				notify.VariantDestructive,
			)
			return m, nil
		}
		m.Toasts.Notify(
			fmt.Sprintf("Server %s", msg.ServerID),
			fmt.Sprintf("%s request accepted", msg.Action),
			notify.VariantSuccess,
		)
		cmds = append(cmds, m.loadServersCmd())

	case ToolsFetchedMsg:
		m.ToolCursor = 0
		return m, nil

	case ServerInspectedMsg:
		if msg.Err != nil {
			m.Toasts.Notify(
				"Failed to inspect server",
				msg.Err.Error(),
				notify.VariantDestructive,
			)
			return m, nil
		}
		m.DirectTools = msg.Tools
		if m.DirectTools == nil {
			m.DirectTools = []api.Tool{}
		}
		m.ToolCursor = 0
		m.FocusedPane = PaneTools
		return m, nil

	case ToolExecutedMsg:
		m.RefreshHistoryPage()
		if msg.Err == nil && msg.Result != nil {
			m.Toasts.Notify(
				"Tool executed",
				fmt.Sprintf("%s finished with status %s", msg.ToolID, msg.Result.Status),
				notify.VariantSuccess,
			)
		}
		// Failures already raised a toast inside the coordinator.
		return m, nil

	case ScanStartedMsg:
		if msg.Err != nil {
			m.Toasts.Notify("Failed to start scan", msg.Err.Error(), notify.VariantDestructive)
			return m, nil
		}
		cmds = append(cmds, m.scanProgressCmd())

	case ScanProgressMsg:
		if msg.Err != nil {
			// Progress polling is best-effort; log and retry on next tick.
			logging.Debug("TUI", "Scan progress poll failed: %v", msg.Err)
			return m, nil
		}
		m.ScanProgress = msg.Progress
		return m, nil

	case ToastsChangedMsg:
		m.ActiveToasts = msg.Toasts
		cmds = append(cmds, m.waitForToastsCmd())

	case LogEntryMsg:
		m.LastLog = fmt.Sprintf("%s %s: %s",
			msg.Entry.Level, msg.Entry.Subsystem, msg.Entry.Message)
		cmds = append(cmds, m.waitForLogsCmd())

	case RefreshTickMsg:
		cmds = append(cmds,
			m.loadServersCmd(),
			m.scanProgressCmd(),
			m.refreshTickCmd(),
		)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.CurrentMode {
	case ModeFilterInput:
		return m.handleFilterInputKey(msg)
	case ModeParamInput:
		return m.handleParamInputKey(msg)
	case ModeHelpOverlay:
		m.CurrentMode = ModeDashboard
		return m, nil
	}
	return m.handleDashboardKey(msg)
}

func (m *Model) handleFilterInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.CurrentMode = ModeDashboard
		m.FilterInput.Blur()
		return m, nil
	case "enter":
		m.HistoryQuery.ToolContains = m.FilterInput.Value()
		m.HistoryQuery.Page = 0
		m.RefreshHistoryPage()
		m.CurrentMode = ModeDashboard
		m.FilterInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.FilterInput, cmd = m.FilterInput.Update(msg)
	return m, cmd
}

func (m *Model) handleParamInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.CurrentMode = ModeDashboard
		m.ParamInput.Blur()
		m.pendingToolID = ""
		return m, nil
	case "enter":
		toolID := m.pendingToolID
		params := parseParams(m.ParamInput.Value())
		m.CurrentMode = ModeDashboard
		m.ParamInput.Blur()
		m.ParamInput.SetValue("")
		m.pendingToolID = ""
		return m, m.executeToolCmd(toolID, params)
	}
	var cmd tea.Cmd
	m.ParamInput, cmd = m.ParamInput.Update(msg)
	return m, cmd
}

func (m *Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.Keys

	switch {
	case key.Matches(msg, keys.Quit):
		m.CurrentMode = ModeQuitting
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.CurrentMode = ModeHelpOverlay
		return m, nil

	case key.Matches(msg, keys.NextPane):
		m.FocusedPane = (m.FocusedPane + 1) % 3
		return m, nil

	case key.Matches(msg, keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, keys.Refresh):
		m.ServersLoading = true
		return m, tea.Batch(m.loadServersCmd(), m.scanProgressCmd())

	case key.Matches(msg, keys.StartStop):
		server := m.SelectedServer()
		if server == nil {
			return m, nil
		}
		action := "start"
		if server.State == api.ServerStateRunning {
			action = "stop"
		}
		return m, m.serverLifecycleCmd(server.ID, action)

	case key.Matches(msg, keys.Execute):
		return m.handleExecuteKey()

	case key.Matches(msg, keys.Inspect):
		server := m.SelectedServer()
		if server == nil {
			return m, nil
		}
		if server.URL == "" {
			m.Toasts.Notify(
				"Cannot inspect server",
				fmt.Sprintf("%s has no SSE endpoint", server.ID),
				notify.VariantDestructive,
			)
			return m, nil
		}
		return m, m.inspectServerCmd(*server)

	case key.Matches(msg, keys.Filter):
		m.CurrentMode = ModeFilterInput
		m.FilterInput.SetValue(m.HistoryQuery.ToolContains)
		m.FilterInput.Focus()
		return m, nil

	case key.Matches(msg, keys.CycleSort):
		m.HistoryQuery.SortBy = nextSortKey(m.HistoryQuery.SortBy)
		m.RefreshHistoryPage()
		return m, nil

	case key.Matches(msg, keys.SortDir):
		m.HistoryQuery.Descending = !m.HistoryQuery.Descending
		m.RefreshHistoryPage()
		return m, nil

	case key.Matches(msg, keys.PrevPage):
		if m.HistoryQuery.Page > 0 {
			m.HistoryQuery.Page--
			m.RefreshHistoryPage()
		}
		return m, nil

	case key.Matches(msg, keys.NextPage):
		if m.HistoryQuery.Page < m.HistoryQuery.Pages(m.HistoryTotal)-1 {
			m.HistoryQuery.Page++
			m.RefreshHistoryPage()
		}
		return m, nil

	case key.Matches(msg, keys.Copy):
		record := m.SelectedHistoryRecord()
		if record == nil {
			return m, nil
		}
		if err := clipboard.WriteAll(record.Output); err != nil {
			m.Toasts.Notify("Copy failed", err.Error(), notify.VariantDestructive)
			return m, nil
		}
		m.Toasts.Notify("Copied", "execution output copied to clipboard", notify.VariantSuccess)
		return m, nil

	case key.Matches(msg, keys.DismissAll):
		for _, toast := range m.Toasts.Active() {
			m.Toasts.Dismiss(toast.ID)
		}
		return m, nil
	}

	return m, nil
}

// handleExecuteKey acts on the focused pane: selecting a server fetches its
// tools, selecting a tool opens the parameter prompt.
func (m *Model) handleExecuteKey() (tea.Model, tea.Cmd) {
	switch m.FocusedPane {
	case PaneServers:
		server := m.SelectedServer()
		if server == nil {
			return m, nil
		}
		// Selecting through the backend replaces any direct view.
		m.DirectTools = nil
		m.Coordinator.SetServer(server.ID)
		return m, m.fetchToolsCmd(server.ID)

	case PaneTools:
		if m.DirectTools != nil {
			// The direct view is an inspector; execution goes through
			// the backend's tool list.
			return m, nil
		}
		tool, ok := m.SelectedTool()
		if !ok {
			return m, nil
		}
		m.pendingToolID = tool.ID
		m.CurrentMode = ModeParamInput
		m.ParamInput.Focus()
		return m, nil
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	switch m.FocusedPane {
	case PaneServers:
		m.ServerCursor = clamp(m.ServerCursor+delta, 0, len(m.Servers)-1)
	case PaneTools:
		m.ToolCursor = clamp(m.ToolCursor+delta, 0, len(m.visibleTools())-1)
	case PaneHistory:
		m.HistoryCur = clamp(m.HistoryCur+delta, 0, len(m.HistoryPage)-1)
	}
}

func clamp(v, low, high int) int {
	if high < low {
		return low
	}
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

func nextSortKey(current history.SortKey) history.SortKey {
	switch current {
	case history.SortByStartedAt:
		return history.SortByTool
	case history.SortByTool:
		return history.SortByDuration
	case history.SortByDuration:
		return history.SortByStatus
	default:
		return history.SortByStartedAt
	}
}
