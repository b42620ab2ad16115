package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flightops/aerodata/internal/api"
	"flightops/aerodata/internal/config"
	"flightops/aerodata/internal/db"
	"flightops/aerodata/internal/logging"
	"flightops/aerodata/internal/metrics"
	"flightops/aerodata/internal/routes"
	"flightops/aerodata/internal/workers"
)

// @title Aerodata API
// @version 1.0
// @description Airport data acquisition and normalization service.
// @host localhost:8080
// @BasePath /
func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Aerodata starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	// The sqlx connection backs the health probe; skipped in sqlite profile
	if cfg.SQLitePath == "" {
		if err := db.InitPostgres(cfg.PostgresDSN()); err != nil {
			logging.Error("Failed to connect to Postgres (sqlx)", "error", err.Error())
			log.Fatalf("Failed to connect to Postgres (sqlx): %v", err)
		}
		logging.Info("Connected to Postgres (sqlx)")
	}

	if _, err := db.InitORM(cfg.PostgresDSN(), cfg.SQLitePath); err != nil {
		logging.Error("Failed to open cache store", "error", err.Error())
		log.Fatalf("Failed to open cache store: %v", err)
	}

	metricsReg := metrics.NewMetricsRegistry()

	deps, err := api.InitDependencies(cfg, metricsReg)
	if err != nil {
		logging.Error("Failed to initialize dependencies", "error", err.Error())
		log.Fatalf("Failed to initialize dependencies: %v", err)
	}

	workers.InitWorkers(context.Background(), deps.Services.Cache)

	upSince := time.Now()

	router := routes.RegisterRoutes(deps, upSince)

	// Metrics endpoint lives outside the Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	addr := ":" + strconv.Itoa(cfg.Port)
	logging.Info("Server starting",
		"port", cfg.Port,
		"environment", cfg.AppEnv,
	)

	log.Fatal(http.ListenAndServe(addr, mux))
}
