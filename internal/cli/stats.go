package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/avicennajr/go-fdisms/internal/app"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show MT/MO traffic totals",
	Long: `Show the running traffic summary for the account, or the summary for
a single day when --date is given.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().String("date", "", "Traffic summary for this day (YYYY-MM-DD)")
}

func runStats(cmd *cobra.Command, args []string) error {
	dateStr, _ := cmd.Flags().GetString("date")

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		if dateStr == "" {
			stats, err := a.Client().Stats(ctx)
			if err != nil {
				return err
			}
			return printJSON(stats)
		}

		day, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return fmt.Errorf("parse --date: %w", err)
		}
		stats, err := a.Client().StatsOn(ctx, day)
		if err != nil {
			return err
		}
		return printJSON(stats)
	})
}
