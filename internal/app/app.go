// Package app wires configuration into a ready inventory service.
package app

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/andresuchdata/stockpilot/internal/alert"
	"github.com/andresuchdata/stockpilot/internal/cache"
	"github.com/andresuchdata/stockpilot/internal/config"
	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/andresuchdata/stockpilot/internal/forecast"
	"github.com/andresuchdata/stockpilot/internal/mockdata"
	"github.com/andresuchdata/stockpilot/internal/repository"
	"github.com/andresuchdata/stockpilot/internal/repository/memory"
	"github.com/andresuchdata/stockpilot/internal/repository/postgres"
	"github.com/andresuchdata/stockpilot/internal/service"
	"github.com/andresuchdata/stockpilot/internal/supplier"
	"github.com/rs/zerolog/log"
)

// App holds the wired inventory service and what must be released on shutdown.
type App struct {
	Inventory *service.InventoryService
	closers   []func() error
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Warn().Err(err).Msg("app: close failed")
		}
	}
}

// New builds every dependency of the inventory service from cfg. The
// caller refreshes the service once it is ready to serve.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	repo, err := a.repository(cfg)
	if err != nil {
		return nil, err
	}

	productCache, err := cache.NewProductCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, product cache disabled")
		productCache = cache.NewNoopProductCache()
	}

	gen, err := forecast.NewGenerator(ctx, cfg.Forecast.APIKey)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create forecast generator: %w", err)
	}
	forecaster := forecast.NewForecaster(gen, forecast.Config{
		ForecastModel:   cfg.Forecast.ForecastModel,
		SuggestionModel: cfg.Forecast.SuggestionModel,
		Timeout:         cfg.Forecast.Timeout,
		RatePerSecond:   cfg.Forecast.RatePerSecond,
		Burst:           cfg.Forecast.Burst,
	})

	tier, ok := domain.ParseTier(cfg.App.DefaultTier)
	if !ok {
		log.Warn().Str("tier", cfg.App.DefaultTier).Msg("unknown default tier, using Starter")
		tier = domain.TierStarter
	}

	composer := service.NewComposer(repo, supplier.NewMockClient(cfg.Supplier.Delay, cfg.Supplier.MockStock), forecaster, cfg.App.ArtificialDelay)
	a.Inventory = service.NewInventoryService(composer, repo, productCache, forecaster, alert.NewDispatcher(cfg.Alert.Delay), service.Options{
		DefaultTier:         tier,
		StarterProductLimit: cfg.App.StarterProductLimit,
		DefaultUser:         cfg.App.DefaultAdjustingUser,
	})
	return a, nil
}

func (a *App) repository(cfg *config.Config) (repository.CatalogRepository, error) {
	switch strings.ToLower(cfg.Database.Backend) {
	case "", "memory":
		seed := cfg.App.RandomSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		log.Info().Int64("seed", seed).Msg("using in-memory catalog")
		return memory.NewCatalogRepository(mockdata.Build(rand.New(rand.NewSource(seed)), time.Now())), nil
	case "postgres":
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		log.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Msg("using postgres catalog")
		return postgres.NewCatalogRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Database.Backend)
	}
}
