// Package telemetry exposes pipeline counters and the optional metrics
// listener.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegistryPages tracks registry pages requested.
	RegistryPages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outreach_registry_pages_total",
		Help: "The total number of registry pages requested.",
	})
	// RegistryErrors tracks registry page requests that failed.
	RegistryErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outreach_registry_errors_total",
		Help: "The total number of failed registry page requests.",
	})
	// CompaniesIngested tracks companies that passed the industry filter.
	CompaniesIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outreach_companies_ingested_total",
		Help: "The total number of companies ingested from the registry.",
	})
	// SitePagesFetched tracks candidate contact pages fetched.
	SitePagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outreach_site_pages_fetched_total",
		Help: "The total number of company website pages fetched.",
	})
	// SiteFetchErrors tracks candidate page fetches that failed.
	SiteFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outreach_site_fetch_errors_total",
		Help: "The total number of failed company website fetches.",
	})
	// EnrichmentHits tracks companies enriched with a contact email.
	EnrichmentHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outreach_enrichment_hits_total",
		Help: "The total number of companies enriched with an email.",
	})
	// SendsAttempted tracks delivery attempts handed to the provider.
	SendsAttempted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outreach_sends_attempted_total",
		Help: "The total number of delivery attempts.",
	})
	// SendsSucceeded tracks deliveries accepted by the provider.
	SendsSucceeded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outreach_sends_succeeded_total",
		Help: "The total number of accepted deliveries.",
	})
	// SendsFailed tracks deliveries rejected by the provider or transport.
	SendsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outreach_sends_failed_total",
		Help: "The total number of failed deliveries.",
	})
	// SendsSkippedUnsubscribed tracks sends suppressed by the opt-out list.
	SendsSkippedUnsubscribed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outreach_sends_skipped_unsubscribed_total",
		Help: "The total number of sends suppressed because the recipient opted out.",
	})
)
