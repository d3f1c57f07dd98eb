package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nborstad/outreach/internal/app"
	"github.com/nborstad/outreach/internal/clock/system"
	"github.com/nborstad/outreach/internal/registry"
)

func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Fetch companies from the public registry",
		Long: `Pages through the business registry for the selected municipalities
and industry prefixes and upserts the results into the local database.
Re-running never erases previously discovered websites or emails.`,
		RunE: runIngest,
	}
}

func runIngest(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	n, err := ingest(cmd.Context(), appInstance, maxPages)
	if err != nil {
		return err
	}
	appInstance.Logger().Info("Ingest complete", zap.Int("companies", n))
	return nil
}

// ingest runs one registry pass and upserts the result. Shared with the
// quick command.
func ingest(ctx context.Context, appInstance *app.App, pageCap int) (int, error) {
	cfg := appInstance.Config()
	client := registry.NewClient(
		cfg.Registry.BaseURL,
		cfg.Registry.UserAgent,
		cfg.RegistryTimeout(),
		cfg.Registry.PageSize,
	)
	ingestor := registry.NewIngestor(client, appInstance.CrawlGate(), system.New(), appInstance.Logger())

	companies := ingestor.Run(ctx, registry.Params{
		Municipalities: municipalities,
		NACEPrefixes:   nacePrefixes,
		MaxPages:       pageCap,
	})

	if err := appInstance.Store().UpsertCompanies(ctx, companies); err != nil {
		return 0, fmt.Errorf("upsert companies: %w", err)
	}
	return len(companies), nil
}
