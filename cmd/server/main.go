package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"favorite-rates-service/internal/adapter/cache"
	"favorite-rates-service/internal/adapter/favorites"
	"favorite-rates-service/internal/adapter/history"
	httpRouter "favorite-rates-service/internal/adapter/http"
	"favorite-rates-service/internal/adapter/repository"
	"favorite-rates-service/internal/config"
	"favorite-rates-service/internal/domain/ports"
	"favorite-rates-service/internal/metrics"
	redisPlatform "favorite-rates-service/internal/platform/redis"
	"favorite-rates-service/internal/platform/sqlite"
	"favorite-rates-service/internal/service"
	"favorite-rates-service/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("error").Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	log.Info("Starting favorite rates service")

	location, err := time.LoadLocation(cfg.Display.Timezone)
	if err != nil {
		log.Error("Unknown display timezone", "timezone", cfg.Display.Timezone, "error", err)
		os.Exit(1)
	}

	appMetrics := metrics.NewMetrics(prometheus.DefaultRegisterer)

	historyStore, favoritesStore, closeStores, err := openStores(cfg, log)
	if err != nil {
		log.Error("Failed to open storage", "error", err, "backend", cfg.History.Backend)
		os.Exit(1)
	}
	defer closeStores()

	var rateRepo ports.RateRepository = repository.NewExchangeAPI(
		cfg.ExchangeAPI.BaseURL,
		cfg.ExchangeAPI.Timeout,
		cfg.ExchangeAPI.MaxRetries,
		cfg.ExchangeAPI.RetryBackoff,
		log,
	)

	var rateCache *cache.MemoryCache
	if cfg.Cache.TTL > 0 {
		rateCache = cache.NewMemoryCache(cfg.Cache.TTL, log)
		rateRepo = repository.NewCachedRepository(rateRepo, rateCache, log)
	}

	formatter := service.NewFormatter(cfg.Display.Precision, location)
	orchestrator := service.NewRefreshOrchestrator(
		rateRepo,
		historyStore,
		formatter,
		appMetrics,
		log,
		service.WithConcurrency(cfg.Refresh.Concurrency),
	)

	exchangeService := service.NewExchangeService(rateRepo, historyStore, favoritesStore, orchestrator, log)
	favoritesService := service.NewFavoritesService(favoritesStore, log)

	if err := favoritesService.Seed(context.Background(), cfg.Favorites); err != nil {
		log.Error("Failed to seed favorites", "error", err)
		os.Exit(1)
	}

	handler := httpRouter.NewHandler(exchangeService, favoritesService, log)
	router := httpRouter.NewRouter(handler, log, appMetrics, prometheus.DefaultGatherer)
	routes := router.SetupRoutes()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      routes,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, cancelRefresh := context.WithCancel(context.Background())
	refreshDone := make(chan struct{})
	go func() {
		defer close(refreshDone)
		refreshRates(ctx, exchangeService, rateCache, cfg.ExchangeAPI.RefreshRate, cfg.Refresh.Timeout, log)
	}()

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	cancelRefresh()
	<-refreshDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		return
	}

	log.Info("Server exited")
}

// openStores builds the history and favorites stores for the configured
// backend. Favorites live next to the history, in memory for the memory backend.
func openStores(cfg *config.Config, log *logger.Logger) (ports.HistoryStore, ports.FavoritesStore, func(), error) {
	switch cfg.History.Backend {
	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.History.DBPath)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info("Using sqlite history", "path", cfg.History.DBPath)
		closeFn := func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close database", "error", err)
			}
		}
		return history.NewSQLiteStore(db.DB, cfg.History.MaxPoints, log),
			favorites.NewSQLiteStore(db.DB, log),
			closeFn, nil

	case config.BackendRedis:
		client, err := redisPlatform.Open(cfg.History.RedisAddr, cfg.History.RedisPassword, cfg.History.RedisDB)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info("Using redis history", "addr", cfg.History.RedisAddr)
		closeFn := func() {
			if err := client.Close(); err != nil {
				log.Error("Failed to close redis client", "error", err)
			}
		}
		return history.NewRedisStore(client, cfg.History.MaxPoints, log),
			favorites.NewRedisStore(client, log),
			closeFn, nil

	default:
		log.Warn("Using in-memory history, series will not survive a restart")
		return history.NewMemoryStore(cfg.History.MaxPoints, log), favorites.NewMemoryStore(), func() {}, nil
	}
}

// refreshRates refreshes the stored favorites at startup and then on every tick.
func refreshRates(
	ctx context.Context,
	svc *service.ExchangeService,
	rateCache *cache.MemoryCache,
	interval, timeout time.Duration,
	log *logger.Logger,
) {
	refreshOnce := func() {
		refreshCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		results, err := svc.RefreshFavorites(refreshCtx)
		if err != nil {
			log.Error("Failed to refresh favorites", "error", err)
			return
		}
		log.Info("Favorites refreshed", "pairs", len(results))

		if rateCache != nil {
			if err := rateCache.ClearExpired(ctx); err != nil {
				log.Error("Failed to clear expired cache entries", "error", err)
			}
		}
	}

	refreshOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			refreshOnce()
		case <-ctx.Done():
			log.Info("Stopping rate refresh goroutine")
			return
		}
	}
}
