package main

import (
	"context"
	"delivery-tracking-service/internal/adapters/alerts"
	"delivery-tracking-service/internal/adapters/cache"
	"delivery-tracking-service/internal/adapters/geo"
	"delivery-tracking-service/internal/adapters/livecache"
	"delivery-tracking-service/internal/adapters/notify"
	"delivery-tracking-service/internal/adapters/repositories"
	"delivery-tracking-service/internal/api"
	"delivery-tracking-service/internal/config"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/platform/db"
	"delivery-tracking-service/internal/platform/logging"
	"delivery-tracking-service/internal/platform/metrics"
	"delivery-tracking-service/internal/platform/redisconn"
	"delivery-tracking-service/internal/ports"
	"delivery-tracking-service/internal/services"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// main is the application composition root. It wires concrete adapters
// (Postgres, Redis, ORS) behind ports and starts the HTTP server.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fallback := logging.New("delivery-tracking", "info")
		fallback.Fatal().Err(err).Msg("config")
	}

	log := logging.New("delivery-tracking", cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Open(cfg.DB.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	defer pool.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := repositories.InitSchema(pool); err != nil {
		log.Fatal().Err(err).Msg("schema")
	}
	if _, err := os.Stat(cfg.DB.SeedPath); err == nil {
		if err := repositories.SeedFromJSON(pool, cfg.DB.SeedPath); err != nil {
			log.Fatal().Err(err).Msg("seed")
		}
	}

	rdb, err := redisconn.Open(ctx, cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("redis")
	}
	defer rdb.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewTrackerMetrics(registry)

	area := domain.Bounds{
		MinLat: cfg.Geo.MinLat,
		MinLng: cfg.Geo.MinLng,
		MaxLat: cfg.Geo.MaxLat,
		MaxLng: cfg.Geo.MaxLng,
	}
	synthetic := geo.NewSyntheticProvider(area)

	var provider ports.GeospatialProvider = synthetic
	if !cfg.Geo.Offline {
		// ORS provider uses persistent caches to avoid repeated
		// geocode/directions calls; provider failures degrade to
		// synthesized data instead of breaking tracking.
		ors, err := geo.NewORSProvider(
			cfg.Geo.APIKey,
			cfg.Geo.BaseURL,
			cache.NewSQLGeocodeCache(pool),
			cache.NewSQLRouteCache(pool),
			log,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("geospatial provider")
		}
		provider = geo.NewFallbackProvider(ors, synthetic, log, m)
	} else {
		log.Info().Msg("offline mode, serving synthesized geospatial data")
	}

	repo := repositories.NewSQLDeliveryRepository(pool)
	live := livecache.NewRedisLiveCache(rdb, cfg.Tracking.SnapshotTTL)
	notifier := notify.NewWebhookNotifier(cfg.Notify.WebhookURL, cfg.Notify.Timeout, log)

	engine := services.NewTrackingEngine(repo, live, notifier, log)
	selector := services.NewRouteSelector(repo, provider, log)
	alertSource := alerts.NewSyntheticSource(time.Now().UnixNano())
	tracker := services.NewTracker(engine, repo, alertSource, services.TrackerConfig{
		Interval:         cfg.Tracking.Interval,
		Step:             cfg.Tracking.ProgressStep,
		AlertProbability: cfg.Tracking.AlertProbability,
		AlertRadiusM:     cfg.Tracking.AlertRadiusM,
	}, log, m, time.Now().UnixNano())

	router := api.NewRouter(api.Deps{
		Engine:       engine,
		Selector:     selector,
		Tracker:      tracker,
		Repo:         repo,
		Live:         live,
		Alerts:       alertSource,
		Geo:          provider,
		AlertRadiusM: cfg.Tracking.AlertRadiusM,
		Registry:     registry,
		Log:          log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Fatal().Err(err).Msg("server")
	}

	log.Info().Msg("shutting down")
	tracker.StopAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
