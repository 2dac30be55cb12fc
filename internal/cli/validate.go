package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/avicennajr/go-fdisms/internal/app"
)

var validateCmd = &cobra.Command{
	Use:   "validate <msisdn> [msisdn...]",
	Short: "Validate subscriber numbers",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().String("country", "RW", "ISO 3166 alpha-2 country code")
}

func runValidate(cmd *cobra.Command, args []string) error {
	country, _ := cmd.Flags().GetString("country")

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		if len(args) == 1 {
			result, err := a.Client().ValidateMSISDN(ctx, args[0], country)
			if err != nil {
				return err
			}
			return printJSON(result)
		}

		result, err := a.Client().ValidateMSISDNBulk(ctx, args, country)
		if err != nil {
			return err
		}
		return printJSON(result)
	})
}
