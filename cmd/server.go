package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mcpctl/internal/api"
)

func newServerCmd() *cobra.Command {
	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Manage MCP servers on the backend",
		Long: `Manage MCP servers registered with the backend.

Available commands:
  list   - List all MCP servers with their state and health
  start  - Start a stopped server
  stop   - Stop a running server

Starting and stopping require an operator role when one is configured.`,
	}

	serverCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all MCP servers",
		RunE:  runServerList,
	})
	serverCmd.AddCommand(&cobra.Command{
		Use:   "start <server-id>",
		Short: "Start an MCP server",
		Args:  cobra.ExactArgs(1),
		RunE:  runServerStart,
	})
	serverCmd.AddCommand(&cobra.Command{
		Use:   "stop <server-id>",
		Short: "Stop an MCP server",
		Args:  cobra.ExactArgs(1),
		RunE:  runServerStop,
	})

	return serverCmd
}

func runServerList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigForCLI()
	if err != nil {
		return err
	}
	session, err := requireRoles(cfg, cfg.Auth.RequiredRoles, "/servers")
	if err != nil {
		return err
	}
	client, err := newBackendClient(cfg, session)
	if err != nil {
		return err
	}

	servers, err := client.ListServers(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list servers: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATE\tHEALTH\tDESCRIPTION")
	for _, server := range servers {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			server.ID, server.Name, server.State, server.Health, server.Description)
	}
	return w.Flush()
}

func runServerStart(cmd *cobra.Command, args []string) error {
	return runServerLifecycle(cmd, args[0], "start")
}

func runServerStop(cmd *cobra.Command, args []string) error {
	return runServerLifecycle(cmd, args[0], "stop")
}

func runServerLifecycle(cmd *cobra.Command, serverID, action string) error {
	cfg, err := loadConfigForCLI()
	if err != nil {
		return err
	}
	session, err := requireRoles(cfg, cfg.Auth.OperatorRoles, "/servers")
	if err != nil {
		return err
	}
	client, err := newBackendClient(cfg, session)
	if err != nil {
		return err
	}

	var server *api.Server
	if action == "start" {
		server, err = client.StartServer(cmd.Context(), serverID)
	} else {
		server, err = client.StopServer(cmd.Context(), serverID)
	}
	if err != nil {
		return fmt.Errorf("failed to %s server %s: %w", action, serverID, err)
	}

	fmt.Printf("Server %s: %s\n", server.ID, server.State)
	if server.Error != "" {
		fmt.Printf("Last error: %s\n", server.Error)
	}
	return nil
}
