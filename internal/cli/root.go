package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avicennajr/go-fdisms/internal/app"
	"github.com/avicennajr/go-fdisms/internal/config"
	"github.com/avicennajr/go-fdisms/internal/logger"
)

var (
	buildVersion = "dev"
	buildCommit  = "none"
)

// SetVersion is called from main to inject build-time version info.
func SetVersion(version, commit string) {
	buildVersion = version
	buildCommit = commit
}

var rootCmd = &cobra.Command{
	Use:   "fdisms",
	Short: "FDI SMS messaging toolkit",
	Long: `fdisms sends SMS through the FDI messaging gateway and keeps the
operational plumbing around it: a local send journal, a delivery
receipt listener, and a balance watchdog that fans alerts out to
HTTP, SQS, SNS or Pub/Sub sinks.

Credentials and defaults come from configs/.env or the environment
(FDI_API_KEY, FDI_API_SECRET, FDI_ENVIRONMENT).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// withApp loads config, initializes logging, wires the runtime, runs fn
// and tears everything down afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if _, err := logger.Init(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	a, err := app.New(cfg, logger.Adapter{})
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(cmd.Context(), a)
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
