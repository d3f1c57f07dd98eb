package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nborstad/outreach/internal/app"
	"github.com/nborstad/outreach/internal/export"
)

func newExportCmd() *cobra.Command {
	var (
		out        string
		includeAll bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the prospects CSV",
		Long: `Writes the prospect export. By default only companies with a known
contact email are included; --all exports every company.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			path := out
			if path == "" {
				path = appInstance.Config().Export.ProspectsPath
			}
			return exportProspects(cmd.Context(), appInstance, path, includeAll)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output path (default from config)")
	cmd.Flags().BoolVar(&includeAll, "all", false, "include companies without an email")
	return cmd
}

func exportProspects(ctx context.Context, appInstance *app.App, path string, includeAll bool) error {
	rows, err := appInstance.Store().ExportRows(ctx, includeAll)
	if err != nil {
		return fmt.Errorf("load export rows: %w", err)
	}
	if err := export.WriteProspects(path, rows); err != nil {
		return err
	}
	appInstance.Logger().Info("Exported prospects",
		zap.Int("rows", len(rows)),
		zap.String("path", path),
	)
	return nil
}

func newExportNamesCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-names",
		Short: "Write the name-only CSV",
		Long: `Writes every company regardless of email, ordered by name
ascending, without the email column.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			path := out
			if path == "" {
				path = appInstance.Config().Export.NamesPath
			}
			rows, err := appInstance.Store().NameRows(cmd.Context())
			if err != nil {
				return fmt.Errorf("load name rows: %w", err)
			}
			if err := export.WriteNames(path, rows); err != nil {
				return err
			}
			appInstance.Logger().Info("Exported names",
				zap.Int("rows", len(rows)),
				zap.String("path", path),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output path (default from config)")
	return cmd
}
