package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/avicennajr/go-fdisms/internal/app"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check messaging gateway availability",
	RunE:  runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		status, err := a.Client().Health(ctx)
		if err != nil {
			return err
		}
		return printJSON(status)
	})
}
