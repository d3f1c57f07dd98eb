package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newUnsubscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unsubscribe <email>",
		Short: "Record a permanent opt-out",
		Long: `Adds the address to the opt-out list. The address is never contacted
again by any future campaign, and recording it twice is a no-op.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			email := strings.TrimSpace(args[0])
			if email == "" {
				return fmt.Errorf("email must not be empty")
			}
			if err := appInstance.Store().RecordUnsubscribe(cmd.Context(), email); err != nil {
				return fmt.Errorf("record unsubscribe: %w", err)
			}
			appInstance.Logger().Info("Recorded opt-out", zap.String("email", email))
			return nil
		},
	}
}
