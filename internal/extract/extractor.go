package extract

import (
	"context"

	"go.uber.org/zap"
)

// candidatePaths are tried in order: the home page first, then the common
// Norwegian and English contact-page aliases.
var candidatePaths = []string{
	"/",
	"/kontakt",
	"/om-oss",
	"/contact",
	"/about",
	"/kontakt-oss",
}

// Waiter gates successive page visits on the same site.
type Waiter interface {
	Wait(ctx context.Context)
}

// Extractor crawls a bounded, ordered list of candidate pages on a
// company website and returns the best-matching contact email.
type Extractor struct {
	fetcher  PageFetcher
	gate     Waiter
	maxPages int
	logger   *zap.Logger
}

// New creates an Extractor visiting at most maxPages candidate paths per
// site.
func New(fetcher PageFetcher, gate Waiter, maxPages int, logger *zap.Logger) *Extractor {
	if maxPages <= 0 || maxPages > len(candidatePaths) {
		maxPages = len(candidatePaths)
	}
	return &Extractor{
		fetcher:  fetcher,
		gate:     gate,
		maxPages: maxPages,
		logger:   logger,
	}
}

// FindEmail returns the best contact email for the site, or ok=false when
// none was found. A site without a qualifying page is the normal outcome
// for many prospects and is not an error; the caller may retry on a later
// run.
func (e *Extractor) FindEmail(ctx context.Context, website string) (string, bool) {
	base, ok := NormalizeURL(website)
	if !ok {
		return "", false
	}
	domain := registrableDomain(base)
	if domain == "" {
		return "", false
	}

	for i, path := range candidatePaths[:e.maxPages] {
		if i > 0 {
			e.gate.Wait(ctx)
		}
		if ctx.Err() != nil {
			return "", false
		}

		target := base + path
		if path == "/" {
			target = base
		}
		body, err := e.fetcher.Fetch(ctx, target)
		if err != nil {
			e.logger.Debug("Candidate page fetch failed",
				zap.String("url", target),
				zap.Error(err),
			)
			continue
		}

		if email, found := bestEmail(extractEmails(body), domain); found {
			e.logger.Debug("Contact email found",
				zap.String("url", target),
				zap.String("email", email),
			)
			return email, true
		}
	}
	return "", false
}
