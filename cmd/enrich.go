package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nborstad/outreach/internal/extract"
)

func newEnrichCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enrich",
		Short: "Find contact emails on company websites",
		Long: `Visits the websites of companies that still lack a contact email,
crawls a bounded set of likely contact pages and stores the best-matching
address on the company's own domain.`,
		RunE: runEnrich,
	}
}

func runEnrich(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	cfg := appInstance.Config()
	logger := appInstance.Logger()

	gate := appInstance.CrawlGate()
	fetcher := extract.NewCollyFetcher(cfg.Registry.UserAgent, cfg.CrawlTimeout(), logger)
	extractor := extract.New(fetcher, gate, cfg.Crawl.MaxPagesPerSite, logger)
	enricher := extract.NewEnricher(appInstance.Store(), extractor, gate, logger)

	n, err := enricher.Run(cmd.Context())
	if err != nil {
		return err
	}
	logger.Info("Enrichment complete", zap.Int("enriched", n))
	return nil
}
