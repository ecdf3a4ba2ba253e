package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mcpctl/internal/api"
	"mcpctl/internal/mcpdirect"
)

var toolsDirectURL string

func newToolsCmd() *cobra.Command {
	toolsCmd := &cobra.Command{
		Use:   "tools <server-id>",
		Short: "List the tools an MCP server exposes",
		Long: `List the tools an MCP server exposes, as reported by the backend.

With --direct, the server-id argument is ignored and the tool list is
fetched straight from the given SSE endpoint over the MCP protocol,
bypassing the backend. Useful for inspecting a server the backend does
not know about yet.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTools,
	}

	toolsCmd.Flags().StringVar(&toolsDirectURL, "direct", "", "SSE endpoint to query directly instead of the backend")

	return toolsCmd
}

func runTools(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigForCLI()
	if err != nil {
		return err
	}

	var tools []api.Tool
	if toolsDirectURL != "" {
		tools, err = mcpdirect.ListTools(cmd.Context(), toolsDirectURL)
		if err != nil {
			return fmt.Errorf("failed to list tools from %s: %w", toolsDirectURL, err)
		}
	} else {
		if len(args) != 1 {
			return fmt.Errorf("a server-id is required unless --direct is given")
		}
		session, sessionErr := requireRoles(cfg, cfg.Auth.RequiredRoles, "/servers/"+args[0])
		if sessionErr != nil {
			return sessionErr
		}
		client, clientErr := newBackendClient(cfg, session)
		if clientErr != nil {
			return clientErr
		}
		tools, err = client.ListTools(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to list tools for %s: %w", args[0], err)
		}
	}

	if len(tools) == 0 {
		fmt.Println("No tools available")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
	for _, tool := range tools {
		fmt.Fprintf(w, "%s\t%s\t%s\n", tool.ID, tool.Name, tool.Description)
	}
	return w.Flush()
}
