package extract

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nborstad/outreach/internal/prospect"
	"github.com/nborstad/outreach/internal/telemetry"
)

// Store is the slice of the persistence layer the Enricher needs.
type Store interface {
	CompaniesMissingEmail(ctx context.Context) ([]prospect.Company, error)
	SetEmail(ctx context.Context, orgnr, email string) error
}

// Enricher walks companies that still lack an email and tries to fill
// them via the Extractor. Re-running only targets companies still missing
// an email, so enrichment is safe to repeat.
type Enricher struct {
	store     Store
	extractor *Extractor
	gate      Waiter
	logger    *zap.Logger
}

// NewEnricher creates an Enricher.
func NewEnricher(store Store, extractor *Extractor, gate Waiter, logger *zap.Logger) *Enricher {
	return &Enricher{
		store:     store,
		extractor: extractor,
		gate:      gate,
		logger:    logger,
	}
}

// Run enriches the worklist and returns how many companies gained an
// email. Only a store failure is returned as an error; a site that yields
// nothing is skipped.
func (e *Enricher) Run(ctx context.Context) (int, error) {
	todo, err := e.store.CompaniesMissingEmail(ctx)
	if err != nil {
		return 0, fmt.Errorf("load enrichment worklist: %w", err)
	}

	enriched := 0
	for i, c := range todo {
		if i > 0 {
			e.gate.Wait(ctx)
		}
		if ctx.Err() != nil {
			break
		}
		if c.Website == "" {
			continue
		}

		email, found := e.extractor.FindEmail(ctx, c.Website)
		if !found {
			continue
		}
		if err := e.store.SetEmail(ctx, c.OrgNr, email); err != nil {
			return enriched, fmt.Errorf("store email for %s: %w", c.OrgNr, err)
		}
		telemetry.EnrichmentHits.Inc()
		enriched++
		e.logger.Info("Found contact email",
			zap.String("orgnr", c.OrgNr),
			zap.String("email", email),
		)
	}
	return enriched, nil
}
