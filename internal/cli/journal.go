package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/avicennajr/go-fdisms/internal/app"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "List recently submitted messages",
	RunE:  runJournal,
}

func init() {
	journalCmd.Flags().Int("limit", 20, "Maximum entries to list (0 = all)")
}

func runJournal(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		entries, err := a.Journal().Sends(limit)
		if err != nil {
			return err
		}
		return printJSON(entries)
	})
}
