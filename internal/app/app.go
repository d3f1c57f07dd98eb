// Package app initializes and holds the long-lived services shared by
// the CLI commands, acting as a dependency injection container.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nborstad/outreach/internal/config"
	"github.com/nborstad/outreach/internal/delivery"
	"github.com/nborstad/outreach/internal/logging"
	"github.com/nborstad/outreach/internal/pacing"
	"github.com/nborstad/outreach/internal/store"
	"github.com/nborstad/outreach/internal/telemetry"
)

const deliveryTimeout = 30 * time.Second

// App holds the shared services for one process lifetime: configuration,
// logger and the embedded store. It is built once at startup and passed
// to the commands that need it.
type App struct {
	cfg    config.Config
	logger *zap.Logger
	store  *store.Store
}

// New loads configuration, builds the logger, opens the store and starts
// the optional metrics listener. It fails fast when any of these cannot
// be initialized.
func New(ctx context.Context, cfgPath string, quiet bool) (*App, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development, quiet)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	st, err := store.Open(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	telemetry.Serve(ctx, cfg.Metrics.Addr, logger)

	return &App{cfg: cfg, logger: logger, store: st}, nil
}

// Close releases the store and flushes the logger.
func (a *App) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("Failed to close store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// Config returns the loaded configuration.
func (a *App) Config() config.Config { return a.cfg }

// Logger returns the shared zap logger instance.
func (a *App) Logger() *zap.Logger { return a.logger }

// Store provides access to the embedded database.
func (a *App) Store() *store.Store { return a.store }

// CrawlGate builds the pacing gate used between website and registry
// fetches.
func (a *App) CrawlGate() *pacing.Gate {
	min, max := a.cfg.CrawlDelayRange()
	return pacing.New(min, max)
}

// SendGate builds the pacing gate used between deliveries.
func (a *App) SendGate() *pacing.Gate {
	min, max := a.cfg.SendDelayRange()
	return pacing.New(min, max)
}

// Deliverer selects the delivery provider. A dry run always uses the
// no-op provider regardless of configuration.
func (a *App) Deliverer(dryRun bool) (delivery.Deliverer, error) {
	if dryRun {
		a.logger.Info("Dry run: deliveries will not leave the process")
		return delivery.NoOp{}, nil
	}
	switch a.cfg.Delivery.Provider {
	case config.ProviderSendGrid:
		if a.cfg.Delivery.APIKey == "" {
			return nil, fmt.Errorf("delivery provider is %q but no API key is configured", config.ProviderSendGrid)
		}
		return delivery.NewSendGrid(a.cfg.Delivery.APIKey, deliveryTimeout), nil
	case config.ProviderNoOp:
		return delivery.NoOp{}, nil
	default:
		return nil, fmt.Errorf("unknown delivery provider: %s", a.cfg.Delivery.Provider)
	}
}
