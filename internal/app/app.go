package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/baxromumarov/jobscout/internal/config"
	"github.com/baxromumarov/jobscout/internal/core"
	"github.com/baxromumarov/jobscout/internal/httpx"
	"github.com/baxromumarov/jobscout/internal/itjobs"
	"github.com/baxromumarov/jobscout/internal/secrets"
	"github.com/baxromumarov/jobscout/internal/store"
	"github.com/baxromumarov/jobscout/internal/teamlyzer"
)

// App holds the services shared by the CLI and the HTTP server.
type App struct {
	Config   config.Config
	Listing  *core.ListingService
	Enricher *core.Enricher
	Stats    *core.StatsService
	// Store is nil when caching is disabled or the database is unreachable.
	Store *store.Store
}

// New wires the clients and services for cfg. A store that cannot be opened only disables
// caching.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	cfg = WithKeyringKey(cfg)

	api := itjobs.NewClient(cfg, nil)
	fetcher := httpx.NewCollyFetcher(httpx.Options{
		UserAgent:         cfg.Teamlyzer.UserAgent,
		Timeout:           cfg.Teamlyzer.Timeout,
		RequestsPerSecond: cfg.Teamlyzer.RequestsPerSecond,
		Burst:             cfg.Teamlyzer.Burst,
		RespectRobots:     cfg.Teamlyzer.RespectRobots,
	})
	directory, err := teamlyzer.NewClient(cfg.Teamlyzer, fetcher)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg}
	var cache core.Cache
	if cfg.Store.DSN != "" {
		if s, err := OpenStore(ctx, cfg.Store.DSN); err != nil {
			slog.Warn("cache disabled", "error", err)
		} else {
			a.Store = s
			cache = s
		}
	}

	a.Listing = core.NewListingService(api)
	a.Enricher = core.NewEnricher(api, directory, cache, cfg.Store.TTL)
	a.Stats = core.NewStatsService(api, directory, cfg.Skills)
	return a, nil
}

// OpenStore opens dsn and creates the cache tables.
func OpenStore(ctx context.Context, dsn string) (*store.Store, error) {
	s, err := store.Open(dsn)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrate cache: %w", err)
	}
	return s, nil
}

// WithKeyringKey fills a missing API key from the OS keyring.
func WithKeyringKey(cfg config.Config) config.Config {
	if cfg.API.Key != "" {
		return cfg
	}
	key, err := secrets.GetAPIKey()
	if err != nil {
		if !errors.Is(err, secrets.ErrNotFound) {
			slog.Debug("keyring unavailable", "error", err)
		}
		return cfg
	}
	return cfg.WithAPIKey(key)
}

func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}
