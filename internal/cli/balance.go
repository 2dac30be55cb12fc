package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/avicennajr/go-fdisms/internal/app"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the current account balance",
	Long: `Show the current account balance, or the closing balance for a past
day when --date is given.`,
	RunE: runBalance,
}

func init() {
	balanceCmd.Flags().String("date", "", "Closing balance for this day (YYYY-MM-DD)")
}

func runBalance(cmd *cobra.Command, args []string) error {
	dateStr, _ := cmd.Flags().GetString("date")

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		if dateStr == "" {
			bal, err := a.Client().BalanceNow(ctx)
			if err != nil {
				return err
			}
			return printJSON(bal)
		}

		day, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return fmt.Errorf("parse --date: %w", err)
		}
		bal, err := a.Client().BalanceOn(ctx, day)
		if err != nil {
			return err
		}
		return printJSON(bal)
	})
}
