package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nborstad/outreach/internal/campaign"
)

func newSendCmd() *cobra.Command {
	var (
		subject      string
		templatePath string
		limit        int
		dryRun       bool
	)
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Dispatch one campaign batch",
		Long: `Selects companies with a known email that have never been contacted,
renders the campaign template for each and delivers the batch with a
randomized pause between sends. Unsubscribed recipients are skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			cfg := appInstance.Config()

			text := campaign.DefaultTemplate
			if templatePath != "" {
				raw, err := os.ReadFile(templatePath)
				if err != nil {
					return fmt.Errorf("read template: %w", err)
				}
				text = string(raw)
			}
			renderer, err := campaign.NewRenderer(text)
			if err != nil {
				return fmt.Errorf("parse template: %w", err)
			}

			if subject == "" {
				subject = cfg.Send.Subject
			}
			if limit <= 0 {
				limit = cfg.Send.BatchLimit
			}

			deliverer, err := appInstance.Deliverer(dryRun)
			if err != nil {
				return err
			}

			dispatcher := campaign.New(
				appInstance.Store(),
				deliverer,
				appInstance.SendGate(),
				campaign.Sender{
					FromName:       cfg.Delivery.FromName,
					FromEmail:      cfg.Delivery.FromEmail,
					ReplyTo:        cfg.Delivery.ReplyTo,
					UnsubscribeURL: cfg.Delivery.UnsubscribeURL,
				},
				appInstance.Logger(),
			)

			sent, err := dispatcher.Run(cmd.Context(), subject, renderer, limit)
			if err != nil {
				return err
			}
			appInstance.Logger().Info("Campaign batch complete",
				zap.Int("sent", sent),
				zap.Bool("dry_run", dryRun),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "email subject (default from config)")
	cmd.Flags().StringVar(&templatePath, "template", "", "path to an HTML template file")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum sends this batch (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "render and log without delivering")
	return cmd
}
