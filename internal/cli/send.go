package cli

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/avicennajr/go-fdisms/internal/app"
	"github.com/avicennajr/go-fdisms/internal/journal"
	"github.com/avicennajr/go-fdisms/internal/logger"
	"github.com/avicennajr/go-fdisms/pkg/fdisms"
)

var sendCmd = &cobra.Command{
	Use:   "send <msisdn> [msisdn...]",
	Short: "Send an SMS to one or more recipients",
	Long: `Send an SMS. One recipient submits a single message; several
recipients submit one bulk message under a shared reference. Every
accepted submission is recorded in the local journal.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().String("text", "", "Message body (required)")
	sendCmd.Flags().String("ref", "", "Correlation reference (default: random UUID)")
	sendCmd.Flags().String("sender", "", "Registered sender id (default: SENDER_ID from config)")
	sendCmd.Flags().String("dlr", "", "Delivery receipt callback URL (default: DLR_URL from config)")
	_ = sendCmd.MarkFlagRequired("text")
}

func runSend(cmd *cobra.Command, args []string) error {
	text, _ := cmd.Flags().GetString("text")
	ref, _ := cmd.Flags().GetString("ref")
	sender, _ := cmd.Flags().GetString("sender")
	dlr, _ := cmd.Flags().GetString("dlr")

	if ref == "" {
		ref = uuid.NewString()
	}

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		cfg := a.Config()
		if sender == "" {
			sender = cfg.SenderID
		}
		if dlr == "" {
			dlr = cfg.CallbackURL
		}

		if len(args) == 1 {
			report, err := a.Client().SendSingle(ctx, fdisms.Message{
				MSISDN:      args[0],
				Text:        text,
				Ref:         ref,
				SenderID:    sender,
				CallbackURL: dlr,
			})
			if err != nil {
				return err
			}
			recordSend(a, journal.Entry{
				Ref:     ref,
				MSISDNs: args,
				Text:    text,
				Status:  report.Status,
				SentAt:  time.Now().UTC(),
			})
			return printJSON(report)
		}

		report, err := a.Client().SendBulk(ctx, fdisms.BulkMessage{
			MSISDNs:     args,
			Text:        text,
			Ref:         ref,
			SenderID:    sender,
			CallbackURL: dlr,
		})
		if err != nil {
			return err
		}
		recordSend(a, journal.Entry{
			Ref:     ref,
			MSISDNs: args,
			Text:    text,
			Bulk:    true,
			SentAt:  time.Now().UTC(),
		})
		return printJSON(report)
	})
}

// recordSend journals an accepted submission. Journal failures do not
// fail the command; the message is already on its way.
func recordSend(a *app.App, e journal.Entry) {
	if err := a.Journal().RecordSend(e); err != nil {
		logger.WarnObj("journal record failed", "msgRef", e.Ref)
	}
}
