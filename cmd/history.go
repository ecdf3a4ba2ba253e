package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mcpctl/internal/history"
)

var (
	historyServerID string
	historyTool     string
	historyStatus   string
	historySort     string
	historyDesc     bool
	historyPage     int
	historyPageSize int
	historyClear    bool
)

func newHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show the local tool execution history",
		Long: `Show tool executions recorded by this machine, newest first.

The history can be filtered by server, tool name substring and status,
sorted by started_at, tool, duration or status, and paged.`,
		RunE: runHistory,
	}

	historyCmd.Flags().StringVar(&historyServerID, "server", "", "Only executions against this server id")
	historyCmd.Flags().StringVar(&historyTool, "tool", "", "Only tools whose name contains this substring")
	historyCmd.Flags().StringVar(&historyStatus, "status", "", "Only executions with this status (success, error)")
	historyCmd.Flags().StringVar(&historySort, "sort", string(history.SortByStartedAt), "Sort key (started_at, tool, duration, status)")
	historyCmd.Flags().BoolVar(&historyDesc, "desc", true, "Sort descending")
	historyCmd.Flags().IntVar(&historyPage, "page", 1, "Page to show (1-based)")
	historyCmd.Flags().IntVar(&historyPageSize, "page-size", 0, "Rows per page, 0 shows everything")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete the stored history instead of listing it")

	return historyCmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	if _, err := loadConfigForCLI(); err != nil {
		return err
	}

	store, err := history.NewStore()
	if err != nil {
		return err
	}

	if historyClear {
		if err := store.Clear(); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Println("History cleared")
		return nil
	}

	query := history.Query{
		ServerID:     historyServerID,
		ToolContains: historyTool,
		Status:       historyStatus,
		SortBy:       history.SortKey(historySort),
		Descending:   historyDesc,
		Page:         historyPage - 1,
		PageSize:     historyPageSize,
	}

	records, total := store.Query(query)
	if total == 0 {
		fmt.Println("No matching executions")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tSERVER\tTOOL\tSTATUS\tDURATION")
	for _, record := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			record.StartedAt.Format("2006-01-02 15:04:05"),
			record.ServerID,
			record.ToolName,
			record.Status,
			record.Duration().String(),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if historyPageSize > 0 {
		fmt.Printf("Page %d of %d, %d matching executions\n",
			historyPage, query.Pages(total), total)
	}
	return nil
}
