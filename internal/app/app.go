// Package app wires the catalog, resolver and optional USDA suggestions
// from configuration. Both binaries start from here.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/macrolens/intake/config"
	"github.com/macrolens/intake/internal/domain"
	"github.com/macrolens/intake/internal/infrastructure/cache"
	"github.com/macrolens/intake/internal/infrastructure/store"
	"github.com/macrolens/intake/internal/infrastructure/usda"
	"github.com/macrolens/intake/internal/logging"
	"github.com/macrolens/intake/internal/usecase"
)

// App holds the wired core.
type App struct {
	Resolver  *usecase.Resolver
	Suggester *usecase.SuggestionService

	closers []func() error
}

// New opens the configured store, loads the catalog and builds the
// resolver. A store that cannot be loaded is an error.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	debug := logging.ParseLevel(cfg.Log.Level) == slog.LevelDebug

	catalogStore, closeStore, err := OpenStore(cfg.Store, logger)
	if err != nil {
		return nil, err
	}
	a := &App{}
	if closeStore != nil {
		a.closers = append(a.closers, closeStore)
	}

	catalog, err := usecase.NewCatalog(ctx, catalogStore, usecase.CatalogConfig{
		Cache:              cache.NewMemoryCache(),
		CacheTTL:           cfg.Cache.TTL,
		EnableDebugLogging: debug,
		Logger:             logger,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Resolver = usecase.NewResolver(catalog, logger)

	var client domain.USDAClient
	if cfg.USDA.Enabled() {
		c := usda.NewClient(cfg.USDA.APIKey, cfg.USDA.BaseURL)
		c.SetRequestsPerHour(cfg.RateLimit.USDA)
		c.SetLogger(logger)
		c.SetDebug(debug)
		client = c
		logger.Info("usda suggestions enabled", "base_url", cfg.USDA.BaseURL)
	}
	a.Suggester = usecase.NewSuggestionService(client, debug, logger)

	return a, nil
}

// OpenStore returns the catalog store selected by cfg and, for stores
// holding resources, a function releasing them. A missing store is only
// created when cfg.Create is set.
func OpenStore(cfg config.StoreConfig, logger *slog.Logger) (domain.CatalogStore, func() error, error) {
	switch cfg.Type {
	case "", "json":
		s := store.NewJSONStore(cfg.Path, logger)
		if cfg.Create {
			if err := s.CreateIfMissing(); err != nil {
				return nil, nil, fmt.Errorf("create json store: %w", err)
			}
		}
		return s, nil, nil
	case "sqlite":
		open := store.OpenSQLite
		if cfg.Create {
			open = store.CreateSQLite
		}
		db, err := open(cfg.Path, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store.NewSQLiteStore(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store type %q", cfg.Type)
	}
}

// Close releases the store.
func (a *App) Close() error {
	var errs []error
	for _, closeFn := range a.closers {
		errs = append(errs, closeFn())
	}
	a.closers = nil
	return errors.Join(errs...)
}
