package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"streamit/internal/app"
	"streamit/internal/catalog"
	"streamit/internal/config"
	"streamit/internal/history"
	"streamit/internal/httputil"
	"streamit/internal/location"
	"streamit/internal/provider"
)

// deps holds the long-lived pieces every command builds from cfg.
type deps struct {
	catalog   *catalog.Client
	providers *provider.Registry
	history   *history.Store // nil when history is disabled or unavailable
}

func newDeps() (*deps, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("building provider table: %w", err)
	}

	client := catalog.New(catalog.Config{
		BaseURL:     cfg.APIBase,
		FeaturedIDs: cfg.FeaturedIDs,
		CacheTTL:    cfg.CacheTTL,
		RateLimit:   cfg.RateLimit,
		HTTP: httputil.ClientConfig{
			Timeout:   cfg.RequestTimeout,
			UserAgent: "streamit/" + Version,
			Debug:     cfg.Debug,
			Logger:    logger,
		},
		Logger: logger,
	})

	d := &deps{catalog: client, providers: reg}
	if cfg.History {
		d.history = openHistory()
	}
	return d, nil
}

// openHistory opens the history store. Failing to open it only disables
// history.
func openHistory() *history.Store {
	path, err := config.HistoryPath()
	if err != nil {
		logger.Warn("history disabled", "error", err)
		return nil
	}
	store, err := history.Open(path)
	if err != nil {
		logger.Warn("history disabled", "path", path, "error", err)
		return nil
	}
	return store
}

func (d *deps) Close() error {
	if d.history == nil {
		return nil
	}
	return d.history.Close()
}

// controller builds a navigation controller starting at the raw location
// start.
func (d *deps) controller(ctx context.Context, start string, r app.Renderer) (*app.Controller, error) {
	u, err := location.ParseStart(start)
	if err != nil {
		return nil, fmt.Errorf("invalid start location %q: %w", start, err)
	}

	opts := app.Options{
		Catalog:           d.catalog,
		Providers:         d.providers,
		Location:          location.NewSync(location.NewMemory(u)),
		Renderer:          r,
		Debounce:          cfg.Debounce,
		MinQuery:          cfg.MinQuery,
		FeaturedCount:     cfg.FeaturedCount,
		PreferredProvider: cfg.Provider,
		Context:           ctx,
		Logger:            logger,
	}
	if d.history != nil {
		opts.Recorder = d.history
	}
	return app.New(opts), nil
}

// failed logs the underlying error and returns the message a user sees for
// it.
func failed(action string, err error) error {
	logger.Debug("request failed", "action", action, "error", err)
	return errors.New(app.Describe(action, err))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
