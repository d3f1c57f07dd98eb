package registry

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nborstad/outreach/internal/clock"
	"github.com/nborstad/outreach/internal/prospect"
	"github.com/nborstad/outreach/internal/telemetry"
)

// Fetcher is the slice of the registry client used by the Ingestor.
type Fetcher interface {
	FetchPage(ctx context.Context, municipality string, page int) (Page, error)
}

// Waiter gates successive registry calls.
type Waiter interface {
	Wait(ctx context.Context)
}

// Params select what the Ingestor pulls from the registry.
type Params struct {
	Municipalities []string
	// NACEPrefixes filters by industry code prefix. Empty means no
	// filtering.
	NACEPrefixes []string
	// MaxPages caps pages per municipality. Zero means no cap.
	MaxPages int
}

// Ingestor drives pagination over the registry for a set of regions.
// Pagination per region is bounded by the page cap, the API-reported page
// count, and a repeat-page signature guard, so it terminates even against
// a misbehaving API.
type Ingestor struct {
	client Fetcher
	gate   Waiter
	clock  clock.Clock
	logger *zap.Logger
}

// NewIngestor creates an Ingestor.
func NewIngestor(client Fetcher, gate Waiter, clk clock.Clock, logger *zap.Logger) *Ingestor {
	return &Ingestor{
		client: client,
		gate:   gate,
		clock:  clk,
		logger: logger,
	}
}

// Run pages through every municipality and returns the matching
// companies. A fetch or decode failure ends that municipality only; the
// remaining municipalities still run.
func (in *Ingestor) Run(ctx context.Context, params Params) []prospect.Company {
	var companies []prospect.Company
	for _, muni := range params.Municipalities {
		companies = append(companies, in.ingestMunicipality(ctx, muni, params)...)
		if ctx.Err() != nil {
			break
		}
	}
	telemetry.CompaniesIngested.Add(float64(len(companies)))
	return companies
}

func (in *Ingestor) ingestMunicipality(ctx context.Context, muni string, params Params) []prospect.Company {
	var out []prospect.Company
	seen := make(map[string]struct{})

	for page := 0; ; page++ {
		if params.MaxPages > 0 && page >= params.MaxPages {
			in.logger.Info("Reached page cap",
				zap.String("municipality", muni),
				zap.Int("max_pages", params.MaxPages),
			)
			break
		}

		in.logger.Debug("Fetching registry page",
			zap.String("municipality", muni),
			zap.Int("page", page),
		)
		telemetry.RegistryPages.Inc()

		p, err := in.client.FetchPage(ctx, muni, page)
		if err != nil {
			telemetry.RegistryErrors.Inc()
			in.logger.Error("Registry fetch failed; abandoning municipality",
				zap.String("municipality", muni),
				zap.Int("page", page),
				zap.Error(err),
			)
			break
		}

		// Some APIs echo the last page forever instead of returning an
		// empty one.
		sig := pageSignature(p.Units)
		if _, dup := seen[sig]; dup {
			in.logger.Warn("Repeating page detected; stopping pagination",
				zap.String("municipality", muni),
				zap.Int("page", page),
			)
			break
		}
		seen[sig] = struct{}{}

		if len(p.Units) == 0 {
			in.logger.Debug("No more entities", zap.String("municipality", muni))
			break
		}

		now := in.clock.Now()
		for _, u := range p.Units {
			if c, ok := mapUnit(u, params.NACEPrefixes, now); ok {
				out = append(out, c)
			}
		}

		if p.TotalPages >= 0 && page+1 >= p.TotalPages {
			in.logger.Debug("Reached last page per API",
				zap.String("municipality", muni),
				zap.Int("total_pages", p.TotalPages),
			)
			break
		}

		in.gate.Wait(ctx)
		if ctx.Err() != nil {
			break
		}
	}
	return out
}

// pageSignature identifies a page by its sorted identifier tuple.
func pageSignature(units []Unit) string {
	ids := make([]string, 0, len(units))
	for _, u := range units {
		ids = append(ids, u.OrgNr)
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}

// mapUnit converts a raw registry record into a Company, applying the
// industry prefix filter. Records without an industry code pass the
// filter so partially filled registry entries are not lost.
func mapUnit(u Unit, prefixes []string, now time.Time) (prospect.Company, bool) {
	c := prospect.Company{
		OrgNr:    strings.TrimSpace(u.OrgNr),
		Name:     strings.TrimSpace(u.Name),
		Website:  strings.TrimSpace(u.Homepage),
		Source:   prospect.SourceRegistry,
		LastSeen: now,
	}
	if u.BusinessAddress != nil {
		c.Municipality = u.BusinessAddress.Municipality
	}
	if u.PrimaryNACE != nil {
		c.NACE = u.PrimaryNACE.Code
	}
	if len(prefixes) > 0 && c.NACE != "" && !hasAnyPrefix(c.NACE, prefixes) {
		return prospect.Company{}, false
	}
	return c, true
}

func hasAnyPrefix(code string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}
