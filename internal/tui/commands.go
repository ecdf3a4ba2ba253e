package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mcpctl/internal/api"
	"mcpctl/internal/mcpdirect"
)

// Mockable for tests.
var directListTools = mcpdirect.ListTools

func (m *Model) loadServersCmd() tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		servers, err := client.ListServers(context.Background())
		return ServersLoadedMsg{Servers: servers, Err: err}
	}
}

func (m *Model) serverLifecycleCmd(serverID, action string) tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		var msg ServerLifecycleMsg
		msg.ServerID = serverID
		msg.Action = action
		if action == "start" {
			msg.Server, msg.Err = client.StartServer(context.Background(), serverID)
		} else {
			msg.Server, msg.Err = client.StopServer(context.Background(), serverID)
		}
		return msg
	}
}

func (m *Model) fetchToolsCmd(serverID string) tea.Cmd {
	coord := m.Coordinator
	return func() tea.Msg {
		coord.FetchTools(context.Background())
		return ToolsFetchedMsg{ServerID: serverID}
	}
}

// inspectServerCmd lists a server's tools straight from its SSE endpoint.
func (m *Model) inspectServerCmd(server api.Server) tea.Cmd {
	return func() tea.Msg {
		tools, err := directListTools(context.Background(), server.URL)
		return ServerInspectedMsg{ServerID: server.ID, Tools: tools, Err: err}
	}
}

func (m *Model) executeToolCmd(toolID string, params map[string]interface{}) tea.Cmd {
	coord := m.Coordinator
	return func() tea.Msg {
		result, err := coord.ExecuteTool(context.Background(), toolID, params)
		return ToolExecutedMsg{ToolID: toolID, Result: result, Err: err}
	}
}

func (m *Model) scanProgressCmd() tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		progress, err := client.GetScanProgress(context.Background())
		return ScanProgressMsg{Progress: progress, Err: err}
	}
}

// waitForToastsCmd blocks on the toast channel and re-arms itself after each
// delivery, so queue mutations from any goroutine reach the UI loop.
func (m *Model) waitForToastsCmd() tea.Cmd {
	events := m.toastEvents
	return func() tea.Msg {
		snapshot, ok := <-events
		if !ok {
			return nil
		}
		return ToastsChangedMsg{Toasts: snapshot}
	}
}

// waitForLogsCmd mirrors waitForToastsCmd for the logging channel. Returns
// nil when no channel is wired (CLI tests build the model without one).
func (m *Model) waitForLogsCmd() tea.Cmd {
	events := m.logEvents
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		entry, ok := <-events
		if !ok {
			return nil
		}
		return LogEntryMsg{Entry: entry}
	}
}

func (m *Model) refreshTickCmd() tea.Cmd {
	interval := m.Config.Dashboard.RefreshInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return RefreshTickMsg{}
	})
}

// parseParams turns "k=v k2=v2" input into an execution parameter map.
// Values stay strings; the tool's schema is opaque at this layer.
func parseParams(input string) map[string]interface{} {
	params := map[string]interface{}{}
	for _, field := range strings.Fields(input) {
		k, v, found := strings.Cut(field, "=")
		if !found || k == "" {
			continue
		}
		params[k] = v
	}
	return params
}
