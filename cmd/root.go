// Package cmd defines and implements the CLI commands for the outreach
// executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nborstad/outreach/internal/app"
)

var (
	cfgFile        string
	quiet          bool
	municipalities []string
	nacePrefixes   []string
	maxPages       int
)

// appKeyType is the key for storing the App in the command context.
type appKeyType string

const appKey appKeyType = "app"

// newApp is the application factory. It is a variable so tests can
// replace it with a mock factory.
var newApp = func(ctx context.Context, cfgPath string, quiet bool) (*app.App, error) {
	return app.New(ctx, cfgPath, quiet)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outreach",
		Short: "A local B2B outreach pipeline.",
		Long: `outreach discovers companies in the public business registry,
enriches them with contact emails scraped from their websites, and runs a
rate-limited, opt-out-respecting email campaign against the result.`,

		SilenceUsage: true,

		// Build and inject the application after flags are parsed but
		// before the subcommand runs.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context(), cfgFile, quiet)
			if err != nil {
				return fmt.Errorf("initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(*app.App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional)")
	cmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "only log warnings and errors")
	cmd.PersistentFlags().StringSliceVar(&municipalities, "municipalities", []string{"0301"},
		"municipality numbers to ingest, e.g. 0301 for Oslo")
	cmd.PersistentFlags().StringSliceVar(&nacePrefixes, "nace", []string{"56"},
		"industry code prefixes, e.g. 56 for food service")
	cmd.PersistentFlags().IntVar(&maxPages, "max-pages", 0,
		"max registry pages per municipality (0 = unlimited)")

	cmd.AddCommand(
		newIngestCmd(),
		newEnrichCmd(),
		newExportCmd(),
		newExportNamesCmd(),
		newSendCmd(),
		newQuickCmd(),
		newUnsubscribeCmd(),
	)

	return cmd
}

func resolveApp(ctx context.Context) (*app.App, error) {
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
