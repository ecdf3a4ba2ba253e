package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mcpctl/internal/auth"
	"mcpctl/internal/history"
	"mcpctl/internal/tui"
	"mcpctl/pkg/logging"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive MCP server dashboard",
		Long: `Open a full-screen dashboard showing MCP servers, their tools and
the local execution history. Access is gated on the configured required
roles; without a valid session the command reports where to log in.`,
		RunE: runDashboard,
	}
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigForCLI()
	if err != nil {
		return err
	}

	session, err := auth.LoadSession()
	if err != nil && !errors.Is(err, auth.ErrNotLoggedIn) {
		return err
	}

	gate := auth.Gate{
		RequiredRoles:    cfg.Auth.RequiredRoles,
		LoginPath:        cfg.Auth.LoginPath,
		UnauthorizedPath: cfg.Auth.UnauthorizedPath,
	}
	result := gate.Check(session, "/dashboard")
	if result.Decision != auth.DecisionAllow {
		fmt.Printf("Access denied (%s), redirecting to %s\n", result.Decision, result.RedirectTo)
		if result.ReturnTo != "" {
			fmt.Printf("You will return to %s after logging in\n", result.ReturnTo)
		}
		return fmt.Errorf("dashboard requires an authorized session")
	}

	client, err := newBackendClient(cfg, session)
	if err != nil {
		return err
	}

	historyStore, err := history.NewStore()
	if err != nil {
		return err
	}

	// Route log lines away from the terminal while the TUI owns it; the
	// dashboard drains the channel into its log line.
	logCh := logging.InitForTUI(logging.ParseLevel(cfg.LogLevel))
	defer logging.CloseTUIChannel()

	return tui.Run(cfg, client, historyStore, logCh)
}
