package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"mcpctl/internal/coordinator"
	"mcpctl/internal/history"
	"mcpctl/internal/notify"
)

// View renders the dashboard.
func (m *Model) View() string {
	if m.CurrentMode == ModeQuitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("mcpctl dashboard"))
	b.WriteString("\n")

	for _, line := range m.renderToasts() {
		b.WriteString(line)
		b.WriteString("\n")
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderServersPane(),
		m.renderToolsPane(),
		m.renderHistoryPane(),
	)
	b.WriteString(panes)
	b.WriteString("\n")

	if m.ScanProgress != nil && m.ScanProgress.Active {
		b.WriteString(dimStyle.Render(fmt.Sprintf(
			"scan: %s %d%% (%d/%d)",
			m.ScanProgress.Path, m.ScanProgress.Percent(),
			m.ScanProgress.Current, m.ScanProgress.Total,
		)))
		b.WriteString("\n")
	}

	if m.LastLog != "" {
		b.WriteString(dimStyle.Render(truncate(m.LastLog, 76)))
		b.WriteString("\n")
	}

	switch m.CurrentMode {
	case ModeFilterInput:
		b.WriteString(statusBarStyle.Render("filter: " + m.FilterInput.View()))
	case ModeParamInput:
		b.WriteString(statusBarStyle.Render(
			fmt.Sprintf("run %s with: %s", m.pendingToolID, m.ParamInput.View())))
	case ModeHelpOverlay:
		b.WriteString(m.Help.FullHelpView(m.Keys.FullHelp()))
	default:
		b.WriteString(statusBarStyle.Render(m.Help.ShortHelpView(m.Keys.ShortHelp())))
	}

	return b.String()
}

func (m *Model) paneStyleFor(pane Pane) lipgloss.Style {
	if m.FocusedPane == pane {
		return focusedPaneStyle
	}
	return paneStyle
}

func (m *Model) renderServersPane() string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Servers"))
	b.WriteString("\n")

	switch {
	case m.ServersLoading:
		b.WriteString(m.Spinner.View() + " loading...")
	case m.ServersErr != "":
		b.WriteString(failedStyle.Render(truncate(m.ServersErr, 28)))
	case len(m.Servers) == 0:
		b.WriteString(dimStyle.Render("no servers"))
	default:
		for i, server := range m.Servers {
			line := fmt.Sprintf("%s %s",
				truncate(server.Name, 18),
				serverStateStyle(server.State).Render(server.State))
			if i == m.ServerCursor && m.FocusedPane == PaneServers {
				line = selectedRowStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return m.paneStyleFor(PaneServers).Render(b.String())
}

func (m *Model) renderToolsPane() string {
	var b strings.Builder

	if m.DirectTools != nil {
		b.WriteString(paneTitleStyle.Render("Tools (direct)"))
		b.WriteString("\n")
		if len(m.DirectTools) == 0 {
			b.WriteString(dimStyle.Render("no tools"))
		}
		for i, tool := range m.DirectTools {
			line := truncate(tool.Name, 26)
			if i == m.ToolCursor && m.FocusedPane == PaneTools {
				line = selectedRowStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		return m.paneStyleFor(PaneTools).Render(b.String())
	}

	b.WriteString(paneTitleStyle.Render("Tools"))
	b.WriteString("\n")

	tools, state, errStr := m.Coordinator.Tools()
	switch state {
	case coordinator.OpLoading:
		b.WriteString(m.Spinner.View() + " loading...")
	case coordinator.OpError:
		b.WriteString(failedStyle.Render(truncate(errStr, 28)))
	case coordinator.OpIdle:
		b.WriteString(dimStyle.Render("select a server"))
	default:
		if len(tools) == 0 {
			b.WriteString(dimStyle.Render("no tools"))
		}
		for i, tool := range tools {
			line := truncate(tool.Name, 26)
			if i == m.ToolCursor && m.FocusedPane == PaneTools {
				line = selectedRowStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return m.paneStyleFor(PaneTools).Render(b.String())
}

func (m *Model) renderHistoryPane() string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("History"))
	b.WriteString(dimStyle.Render(fmt.Sprintf(
		"  sort:%s%s  page %d/%d  (%d)",
		m.HistoryQuery.SortBy, sortArrow(m.HistoryQuery),
		m.HistoryQuery.Page+1, m.HistoryQuery.Pages(m.HistoryTotal), m.HistoryTotal,
	)))
	if m.HistoryQuery.ToolContains != "" {
		b.WriteString(dimStyle.Render("  filter:" + m.HistoryQuery.ToolContains))
	}
	b.WriteString("\n")

	if len(m.HistoryPage) == 0 {
		b.WriteString(dimStyle.Render("no executions"))
	}
	for i, record := range m.HistoryPage {
		status := record.Status
		if status == "error" {
			status = failedStyle.Render(status)
		} else {
			status = runningStyle.Render(status)
		}
		line := fmt.Sprintf("%s  %s  %s  %s",
			record.StartedAt.Format("15:04:05"),
			truncate(record.ToolName, 22),
			status,
			record.Duration().Round(time.Millisecond),
		)
		if i == m.HistoryCur && m.FocusedPane == PaneHistory {
			line = selectedRowStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return m.paneStyleFor(PaneHistory).Render(b.String())
}

func (m *Model) renderToasts() []string {
	lines := make([]string, 0, len(m.ActiveToasts))
	for _, toast := range m.ActiveToasts {
		text := toast.Description
		if toast.Title != "" {
			text = toast.Title + ": " + text
		}
		lines = append(lines, toastStyleFor(toast.Variant).Render(truncate(text, 76)))
	}
	return lines
}

func toastStyleFor(variant notify.Variant) lipgloss.Style {
	switch variant {
	case notify.VariantSuccess:
		return toastSuccessStyle
	case notify.VariantDestructive:
		return toastDestructiveStyle
	default:
		return toastDefaultStyle
	}
}

func sortArrow(q history.Query) string {
	if q.Descending {
		return "↓"
	}
	return "↑"
}

// truncate shortens a string to the given display width.
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}
