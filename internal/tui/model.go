package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"mcpctl/internal/api"
	"mcpctl/internal/config"
	"mcpctl/internal/coordinator"
	"mcpctl/internal/history"
	"mcpctl/internal/notify"
	"mcpctl/pkg/logging"
)

// NewModel wires up the dashboard. The toast queue is created here so its
// change notifications flow into the bubbletea loop as messages; logCh is
// the channel returned by logging.InitForTUI and may be nil in tests.
func NewModel(cfg config.Config, client api.Client, historyStore *history.Store, logCh <-chan logging.LogEntry) *Model {
	toastEvents := make(chan []notify.Toast, 16)
	toasts := notify.NewQueue(func(snapshot []notify.Toast) {
		// Non-blocking: a dropped snapshot is superseded by the next one.
		select {
		case toastEvents <- snapshot:
		default:
		}
	})

	coord := coordinator.New(client, toasts, historyStore)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	filterInput := textinput.New()
	filterInput.Placeholder = "filter by tool name"
	filterInput.CharLimit = 64

	paramInput := textinput.New()
	paramInput.Placeholder = `parameters, e.g. ns=default limit=10`
	paramInput.CharLimit = 256

	m := &Model{
		Client:      client,
		Coordinator: coord,
		History:     historyStore,
		Toasts:      toasts,
		Config:      cfg,

		CurrentMode: ModeDashboard,
		FocusedPane: PaneServers,

		HistoryQuery: history.Query{
			SortBy:     history.SortByStartedAt,
			Descending: true,
			PageSize:   cfg.Dashboard.HistoryPageSize,
		},

		toastEvents: toastEvents,
		logEvents:   logCh,

		Spinner:     sp,
		FilterInput: filterInput,
		ParamInput:  paramInput,
		Help:        help.New(),
		Keys:        DefaultKeyMap(),
	}
	m.RefreshHistoryPage()
	return m
}

// Init starts the initial loads and the toast and log listeners.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.Spinner.Tick,
		m.loadServersCmd(),
		m.scanProgressCmd(),
		m.waitForToastsCmd(),
		m.waitForLogsCmd(),
		m.refreshTickCmd(),
	)
}

// Run starts the dashboard program and blocks until it exits.
func Run(cfg config.Config, client api.Client, historyStore *history.Store, logCh <-chan logging.LogEntry) error {
	m := NewModel(cfg, client, historyStore, logCh)
	defer m.Toasts.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
