// Package app assembles the record store, cache, services and HTTP router
// from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dom/locus-core/internal/api"
	"github.com/dom/locus-core/internal/cache"
	"github.com/dom/locus-core/internal/config"
	"github.com/dom/locus-core/internal/metrics"
	"github.com/dom/locus-core/internal/repository"
	"github.com/dom/locus-core/internal/repository/postgres"
	"github.com/dom/locus-core/internal/repository/workbook"
	"github.com/dom/locus-core/internal/scheduler"
	"github.com/dom/locus-core/internal/service"
)

const redisKeyPrefix = "locus:"

type App struct {
	Config   *config.Config
	Repos    *repository.Repositories
	Cache    cache.Cache
	Services *service.Services
	Sweeper  *scheduler.Sweeper

	closers []func() error
}

// New opens the configured store and cache and builds the services on top.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	if err := repository.Bootstrap(ctx, store); err != nil {
		a.Close()
		return nil, fmt.Errorf("bootstrap tables: %w", err)
	}

	c, err := a.openCache(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Repos = repository.NewRepositories(store)
	a.Cache = c
	a.Services = service.NewServices(a.Repos, c, cfg)
	a.Sweeper = scheduler.NewSweeper(c,
		scheduler.WithSchedule(cfg.CacheSweepSchedule),
		scheduler.WithLocation(cfg.Location()),
		scheduler.WithMetrics(metrics.Default()),
	)
	return a, nil
}

func (a *App) openStore(ctx context.Context) (repository.RecordStore, error) {
	switch a.Config.StoreDriver {
	case config.StorePostgres:
		db, err := postgres.NewConnection(a.Config.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, sqlDB.Close)
		slog.Info("Using postgres record store")
		return postgres.NewRecordStore(db), nil
	default:
		store, err := workbook.Open(a.Config.WorkbookPath)
		if err != nil {
			return nil, fmt.Errorf("open workbook: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		slog.Info("Using workbook record store", "path", a.Config.WorkbookPath)
		return store, nil
	}
}

func (a *App) openCache(ctx context.Context) (cache.Cache, error) {
	switch a.Config.CacheDriver {
	case config.CacheRedis:
		c, err := cache.NewRedisCacheFromURL(ctx, a.Config.RedisURL, redisKeyPrefix)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.closers = append(a.closers, c.Close)
		slog.Info("Using redis cache")
		return c, nil
	default:
		slog.Info("Using in-memory cache")
		return cache.NewMemoryCache(), nil
	}
}

func (a *App) Handler() http.Handler {
	return api.NewRouter(a.Services, a.Config)
}

// Run serves HTTP and runs the cache sweeper until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.Sweeper.Start(); err != nil {
		return err
	}
	defer a.Sweeper.Stop()

	srv := &http.Server{
		Addr:         "0.0.0.0:" + a.Config.Port,
		Handler:      a.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "port", a.Config.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server stopped")
	return nil
}

// Close releases the store and cache connections in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
