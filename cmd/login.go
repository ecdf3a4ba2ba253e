package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mcpctl/internal/auth"
)

var loginToken string

func newLoginCmd() *cobra.Command {
	loginCmd := &cobra.Command{
		Use:   "login [token]",
		Short: "Store a backend access token",
		Long: `Store a bearer token for the MCP manager backend. The token is
taken from the argument or --token, or read from stdin, and saved
under the user config directory. The token is decoded locally to show
who it belongs to; the backend is what actually verifies it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLogin,
	}

	loginCmd.Flags().StringVar(&loginToken, "token", "", "Bearer token (read from stdin when omitted)")

	return loginCmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete the stored access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.ClearSession(); err != nil {
				return fmt.Errorf("failed to remove stored token: %w", err)
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func runLogin(cmd *cobra.Command, args []string) error {
	token := loginToken
	if token == "" && len(args) == 1 {
		token = args[0]
	}
	if token == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Paste token: ")
		reader := bufio.NewReader(cmd.InOrStdin())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token = strings.TrimSpace(line)
	}
	if token == "" {
		return fmt.Errorf("no token provided")
	}

	session, err := auth.SaveSession(token)
	if err != nil {
		return err
	}

	if session.Subject != "" {
		fmt.Printf("Logged in as %s", session.Subject)
	} else {
		fmt.Print("Logged in")
	}
	if len(session.Roles) > 0 {
		fmt.Printf(" (roles: %s)", strings.Join(session.Roles, ", "))
	}
	fmt.Println()
	return nil
}
