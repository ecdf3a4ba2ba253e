package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var repoScanPath string

func newRepoCmd() *cobra.Command {
	repoCmd := &cobra.Command{
		Use:   "repo",
		Short: "Manage scanned tool repositories",
		Long: `Manage the repositories the backend scans for MCP tool definitions.

Available commands:
  list      - List known repositories
  scan      - Trigger a scan of a repository path
  progress  - Show the progress of the current scan`,
	}

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Trigger a repository scan",
		RunE:  runRepoScan,
	}
	scanCmd.Flags().StringVar(&repoScanPath, "path", "", "Repository path to scan (backend default root when omitted)")

	repoCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List known repositories",
		RunE:  runRepoList,
	})
	repoCmd.AddCommand(scanCmd)
	repoCmd.AddCommand(&cobra.Command{
		Use:   "progress",
		Short: "Show scan progress",
		RunE:  runRepoProgress,
	})

	return repoCmd
}

func runRepoList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigForCLI()
	if err != nil {
		return err
	}
	session, err := requireRoles(cfg, cfg.Auth.RequiredRoles, "/repos")
	if err != nil {
		return err
	}
	client, err := newBackendClient(cfg, session)
	if err != nil {
		return err
	}

	repos, err := client.ListRepos(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list repositories: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPATH\tLAST SCANNED")
	for _, repo := range repos {
		lastScanned := "never"
		if !repo.LastScanned.IsZero() {
			lastScanned = repo.LastScanned.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", repo.ID, repo.Name, repo.Path, lastScanned)
	}
	return w.Flush()
}

func runRepoScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigForCLI()
	if err != nil {
		return err
	}
	session, err := requireRoles(cfg, cfg.Auth.OperatorRoles, "/repos")
	if err != nil {
		return err
	}
	client, err := newBackendClient(cfg, session)
	if err != nil {
		return err
	}

	if err := client.RunScan(cmd.Context(), repoScanPath); err != nil {
		if repoScanPath != "" {
			return fmt.Errorf("failed to start scan of %s: %w", repoScanPath, err)
		}
		return fmt.Errorf("failed to start scan: %w", err)
	}

	if repoScanPath != "" {
		fmt.Printf("Scan of %s started, follow it with 'mcpctl repo progress'\n", repoScanPath)
	} else {
		fmt.Println("Scan of the backend's default root started, follow it with 'mcpctl repo progress'")
	}
	return nil
}

func runRepoProgress(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigForCLI()
	if err != nil {
		return err
	}
	session, err := requireRoles(cfg, cfg.Auth.RequiredRoles, "/repos")
	if err != nil {
		return err
	}
	client, err := newBackendClient(cfg, session)
	if err != nil {
		return err
	}

	progress, err := client.GetScanProgress(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch scan progress: %w", err)
	}

	if !progress.Active && progress.Total == 0 {
		fmt.Println("No scan in progress")
		return nil
	}
	fmt.Printf("Scanning %s: %d/%d (%d%%)", progress.Path, progress.Current, progress.Total, progress.Percent())
	if progress.Message != "" {
		fmt.Printf(", %s", progress.Message)
	}
	fmt.Println()
	return nil
}
