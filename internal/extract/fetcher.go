package extract

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/nborstad/outreach/internal/telemetry"
)

// PageFetcher retrieves the raw body of one page.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// CollyFetcher implements PageFetcher by cloning a base collector per
// visit.
type CollyFetcher struct {
	base   *colly.Collector
	logger *zap.Logger
}

// NewCollyFetcher constructs a configured Colly-based PageFetcher.
func NewCollyFetcher(userAgent string, timeout time.Duration, logger *zap.Logger) *CollyFetcher {
	base := colly.NewCollector(
		colly.UserAgent(userAgent),
	)
	base.AllowURLRevisit = true
	base.SetRequestTimeout(timeout)
	return &CollyFetcher{base: base, logger: logger}
}

type fetchResult struct {
	body []byte
	err  error
}

// Fetch retrieves one page. Any transport or HTTP error is returned to
// the caller; the crawl decides whether to continue.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	collector := f.base.Clone()

	resultCh := make(chan fetchResult, 1)
	var once sync.Once
	send := func(res fetchResult) {
		once.Do(func() { resultCh <- res })
	}

	collector.OnResponse(func(r *colly.Response) {
		send(fetchResult{body: append([]byte{}, r.Body...)})
	})
	collector.OnError(func(_ *colly.Response, err error) {
		if err == nil {
			err = errors.New("unknown colly error")
		}
		send(fetchResult{err: err})
	})

	telemetry.SitePagesFetched.Inc()
	if err := collector.Visit(rawURL); err != nil {
		telemetry.SiteFetchErrors.Inc()
		return nil, fmt.Errorf("visit %s: %w", rawURL, err)
	}
	collector.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case res := <-resultCh:
		if res.err != nil {
			telemetry.SiteFetchErrors.Inc()
			return nil, fmt.Errorf("fetch %s: %w", rawURL, res.err)
		}
		return res.body, nil
	default:
		return nil, fmt.Errorf("fetch %s: no response", rawURL)
	}
}
