package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/cv-builder-cli/internal/api"
	"github.com/jonathan/cv-builder-cli/internal/auth"
	"github.com/jonathan/cv-builder-cli/internal/builder"
	"github.com/jonathan/cv-builder-cli/internal/catalog"
	"github.com/jonathan/cv-builder-cli/internal/config"
	"github.com/jonathan/cv-builder-cli/internal/enhance"
	"github.com/jonathan/cv-builder-cli/internal/export"
	"github.com/jonathan/cv-builder-cli/internal/observability"
	"github.com/jonathan/cv-builder-cli/internal/score"
	"github.com/jonathan/cv-builder-cli/internal/transport"
)

// app wires the client stack for one command invocation.
type app struct {
	cfg      *config.Config
	api      *api.Client
	store    *builder.Store
	engine   *enhance.Engine
	tracker  *score.Tracker
	exporter *export.Coordinator
	catalog  *catalog.Catalog
	printer  *observability.Printer
}

// newApp loads configuration and builds the client stack. Flag values
// override the config file, which overrides environment variables.
func newApp() (*app, error) {
	cfg := &config.Config{}
	if rootConfigPath != "" {
		loaded, err := config.LoadConfig(rootConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if rootAPIURL != "" {
		cfg.BaseURL = rootAPIURL
	}
	if rootVerbose {
		cfg.Verbose = true
	}
	cfg.FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tokenStore, err := auth.NewFileStore(cfg.CredentialsFile)
	if err != nil {
		return nil, err
	}

	httpClient := transport.NewClient(cfg.BaseURL, tokenStore, &transport.Options{Timeout: cfg.Timeout()})
	httpClient.OnLogout(func() {
		fmt.Fprintln(os.Stderr, "Session expired. Run 'cvb login' to continue.")
	})

	apiClient := api.NewClient(httpClient)
	cvStore := builder.NewStore(apiClient)

	return &app{
		cfg:      cfg,
		api:      apiClient,
		store:    cvStore,
		engine:   enhance.NewEngine(apiClient, cvStore),
		tracker:  score.NewTracker(apiClient, cvStore),
		exporter: export.NewCoordinator(apiClient, cvStore),
		catalog:  catalog.NewCatalog(apiClient, 0),
		printer:  observability.NewPrinter(os.Stdout),
	}, nil
}

// loadCurrent refreshes the CV list and applies the --cv selection. When no
// id is given, the primary document is current.
func (a *app) loadCurrent(ctx context.Context) error {
	if err := a.store.Refresh(ctx); err != nil {
		return err
	}
	if rootCVID != "" {
		if _, err := a.store.Select(rootCVID); err != nil {
			return err
		}
	}
	if a.store.Current() == nil {
		return builder.ErrNoCurrentCV
	}
	return nil
}
