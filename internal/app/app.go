// Package app wires the store, feed adapters, engine, API server, and the
// periodic updater into the server-mode application.
package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/internal/api"
	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/internal/engine"
	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/internal/feeds"
	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/internal/services"
	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/internal/store"
	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/config"
)

// App represents the main application
type App struct {
	cfg    *config.Config
	logger *logrus.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Core components
	assetStore store.AssetStore
	engine     *engine.Engine
	apiServer  *api.Server
	updater    *services.Updater
}

// New creates a new application instance
func New(cfg *config.Config, logger *logrus.Logger) *App {
	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		cfg:    cfg,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Initialize initializes all application components
func (a *App) Initialize() error {
	if err := a.initializeStore(); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	if err := a.initializeEngine(); err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}

	a.apiServer = api.NewServer(a.cfg, a.assetStore, a.logger)

	if a.cfg.Updater.Enabled {
		a.updater = services.NewUpdater(a.engine, &a.cfg.Updater, a.logger)
	}

	return nil
}

// Start starts the application
func (a *App) Start() error {
	if a.updater != nil {
		if err := a.updater.Start(a.ctx); err != nil {
			return fmt.Errorf("failed to start updater: %w", err)
		}
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			a.logger.WithError(err).Error("API server stopped")
			a.cancel()
		}
	}()

	a.logger.Info("🚀 Application started")
	return nil
}

// Stop gracefully stops the application
func (a *App) Stop(ctx context.Context) error {
	a.logger.Info("Shutting down application")

	if a.updater != nil {
		if err := a.updater.Stop(); err != nil {
			a.logger.WithError(err).Warn("Failed to stop updater")
		}
	}

	if a.apiServer != nil {
		if err := a.apiServer.Stop(ctx); err != nil {
			a.logger.WithError(err).Warn("Failed to stop API server")
		}
	}

	a.cancel()
	a.wg.Wait()

	if a.assetStore != nil {
		if err := a.assetStore.Close(); err != nil {
			a.logger.WithError(err).Warn("Failed to close store")
		}
	}

	a.logger.Info("Application stopped")
	return nil
}

// Done returns a channel closed when the application is shutting down on its
// own, for example after a fatal API server error.
func (a *App) Done() <-chan struct{} {
	return a.ctx.Done()
}

// Engine exposes the reconciliation engine for one-shot commands.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

func (a *App) initializeStore() error {
	var err error
	a.assetStore, err = BuildStore(a.cfg, a.logger)
	return err
}

func (a *App) initializeEngine() error {
	var err error
	a.engine, err = BuildEngine(a.cfg, a.assetStore, a.logger)
	return err
}

// BuildStore constructs the configured store backend.
func BuildStore(cfg *config.Config, logger *logrus.Logger) (store.AssetStore, error) {
	switch cfg.Store.Backend {
	case "redis":
		return store.NewRedisStore(&cfg.Redis, logger)
	default:
		return store.NewFileStore(cfg.Store.Path, logger)
	}
}

// BuildEngine constructs the reconciliation engine with the full feed set.
// Yahoo doubles as the FX source for currency normalization.
func BuildEngine(cfg *config.Config, assetStore store.AssetStore, logger *logrus.Logger) (*engine.Engine, error) {
	httpClient := &http.Client{Timeout: cfg.Feeds.Timeout}

	yahoo := feeds.NewYahooClient(httpClient, cfg.Feeds.YahooURL, logger)

	adapters := map[string]engine.Feed{
		"truncgil": feeds.NewTruncgilClient(httpClient, cfg.Feeds.TruncgilURL, logger),
		"yahoo":    yahoo,
	}
	if cfg.Feeds.BinanceEnabled {
		adapters["binance"] = feeds.NewBinanceClient(httpClient, cfg.Feeds.BinanceURL, logger)
	}
	if cfg.Feeds.GenelParaEnabled {
		adapters["genelpara"] = feeds.NewGenelParaClient(httpClient, cfg.Feeds.GenelParaURL, logger)
	}

	return engine.New(assetStore, adapters, yahoo, &cfg.Engine, logger)
}
