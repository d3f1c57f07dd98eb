package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newQuickCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "quick",
		Short: "Fetch one registry page and export it",
		Long: `Ingests a single registry page per municipality and immediately
writes the prospects CSV. Useful for smoke tests and small samples.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			n, err := ingest(cmd.Context(), appInstance, 1)
			if err != nil {
				return err
			}
			appInstance.Logger().Info("Quick ingest complete", zap.Int("companies", n))

			path := out
			if path == "" {
				path = appInstance.Config().Export.ProspectsPath
			}
			return exportProspects(cmd.Context(), appInstance, path, true)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output path (default from config)")
	return cmd
}
