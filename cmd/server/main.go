package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"astra/telemetry-backend/internal/api"
	"astra/telemetry-backend/internal/common"
	"astra/telemetry-backend/internal/config"
	"astra/telemetry-backend/internal/db"
	"astra/telemetry-backend/internal/logging"
	"astra/telemetry-backend/internal/metrics"
	"astra/telemetry-backend/internal/routes"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// @title Astra Telemetry API
// @version 1.0
// @description Flight tracking and telemetry backend for the Astra ground station.
// @host localhost:8080
// @BasePath /
func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Astra telemetry backend starting up",
		"environment", cfg.AppEnv,
		"db_driver", cfg.DBDriver,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	gdb, err := db.Open(cfg)
	if err != nil {
		logging.Error("Failed to open database", "error", err.Error())
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logging.Error("Failed to migrate schema", "error", err.Error())
		log.Fatalf("❌ Failed to migrate schema: %v", err)
	}

	reporting, err := db.OpenReporting(cfg, gdb)
	if err != nil {
		logging.Error("Failed to open reporting connection (sqlx)", "error", err.Error())
		log.Fatalf("❌ Failed to open reporting connection: %v", err)
	}
	logging.Info("Reporting connection ready (sqlx)")

	// Redis when configured, otherwise the in-process cache
	var cache common.CacheInterface
	if cfg.RedisEnabled() {
		client, err := common.NewRedisClient(cfg)
		if err != nil {
			logging.Error("Failed to connect to Redis", "error", err.Error())
			log.Fatalf("❌ Failed to connect to Redis: %v", err)
		}
		cache = common.NewRedisCacheService(client)
	} else {
		logging.Info("REDIS_HOST not set, using in-memory cache")
		cache = common.NewCacheService(cfg.StatsCacheTTL, 5*time.Minute)
	}
	defer cache.Close()

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	deps, err := api.InitDependencies(cfg, gdb, reporting, cache, metricsReg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize dependencies: %v", err)
	}

	router := routes.RegisterRoutes(cfg, deps)

	// Setup metrics endpoint outside of Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router) // Mount Chi router at root
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Server starting", "addr", cfg.HTTPAddr, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logging.Info("Shutting down, draining requests")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err.Error())
	}
	if err := reporting.Close(); err != nil {
		logging.Warn("Failed to close reporting connection", "error", err.Error())
	}
	logging.Info("Server stopped")
}
