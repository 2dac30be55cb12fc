package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/avicennajr/go-fdisms/internal/app"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the account balance and raise low-balance alerts",
	Long: `Poll the account balance on a fixed cadence. When the balance drops
under the threshold an alert event is delivered to every enabled sink.
Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Float64("threshold", 0, "Alert threshold (default: BALANCE_THRESHOLD from config)")
	watchCmd.Flags().Int64("interval", 0, "Poll interval in seconds (default: WATCH_INTERVAL from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	intervalSec, _ := cmd.Flags().GetInt64("interval")

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		if cmd.Flags().Changed("threshold") {
			if threshold < 0 {
				return fmt.Errorf("threshold must not be negative")
			}
			a.Config().BalanceThreshold = threshold
		}
		if cmd.Flags().Changed("interval") {
			if intervalSec <= 0 {
				return fmt.Errorf("interval must be positive seconds")
			}
			a.Config().WatchInterval = time.Duration(intervalSec) * time.Second
		}
		return a.RunWatch(ctx)
	})
}
