package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/avicennajr/go-fdisms/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the delivery receipt listener",
	Long: `Run the HTTP listener the gateway posts delivery receipts to.
Receipts are deduplicated against the local journal and forwarded to
every enabled sink. Runs until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("listen", "", "Listen address (default: DLR_LISTEN_ADDR from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	listen, _ := cmd.Flags().GetString("listen")

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		if cmd.Flags().Changed("listen") && listen != "" {
			a.Config().DLRListenAddr = listen
		}
		return a.RunReceiptServer(ctx)
	})
}
