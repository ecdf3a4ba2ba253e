package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mcpctl/internal/api"
	"mcpctl/internal/coordinator"
	"mcpctl/internal/history"
	"mcpctl/internal/mcpdirect"
)

var (
	callParams    []string
	callDirectURL string
)

func newCallCmd() *cobra.Command {
	callCmd := &cobra.Command{
		Use:   "call <server-id> <tool>",
		Short: "Execute a tool on an MCP server",
		Long: `Execute a tool on an MCP server through the backend and print the
result. Parameters are passed as repeated --param key=value flags.

With --direct, the server-id is replaced by an SSE endpoint and the
call goes straight to the server over the MCP protocol. Direct calls
are not recorded in the execution history.`,
		Args: cobra.ExactArgs(2),
		RunE: runCall,
	}

	callCmd.Flags().StringArrayVarP(&callParams, "param", "p", nil, "Tool parameter as key=value (repeatable)")
	callCmd.Flags().StringVar(&callDirectURL, "direct", "", "SSE endpoint to call directly instead of the backend")

	return callCmd
}

func runCall(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigForCLI()
	if err != nil {
		return err
	}

	params := make(map[string]interface{}, len(callParams))
	for _, p := range callParams {
		key, value, found := strings.Cut(p, "=")
		if !found || key == "" {
			return fmt.Errorf("invalid --param %q, expected key=value", p)
		}
		params[key] = value
	}

	if callDirectURL != "" {
		result, callErr := mcpdirect.CallTool(cmd.Context(), callDirectURL, args[1], params)
		if callErr != nil {
			return fmt.Errorf("direct call failed: %w", callErr)
		}
		return printExecutionResult(result)
	}

	session, err := requireRoles(cfg, cfg.Auth.OperatorRoles, "/servers/"+args[0])
	if err != nil {
		return err
	}
	client, err := newBackendClient(cfg, session)
	if err != nil {
		return err
	}
	historyStore, err := history.NewStore()
	if err != nil {
		return err
	}

	// The coordinator records history and keeps execution semantics
	// identical between the CLI and the dashboard.
	coord := coordinator.New(client, nil, historyStore)
	coord.SetServer(args[0])

	result, err := coord.ExecuteTool(cmd.Context(), args[1], params)
	if err != nil {
		return fmt.Errorf("tool execution failed: %w", err)
	}
	return printExecutionResult(result)
}

func printExecutionResult(result *api.ExecutionResult) error {
	if result == nil {
		return fmt.Errorf("no result returned")
	}
	fmt.Printf("Status: %s\n", result.Status)
	if len(result.Output) > 0 {
		fmt.Println(string(result.Output))
	}
	if result.Status == api.ExecutionStatusError {
		return fmt.Errorf("tool reported an error")
	}
	return nil
}
