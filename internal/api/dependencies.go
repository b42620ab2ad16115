package api

import (
	"flightops/aerodata/internal/analysis"
	"flightops/aerodata/internal/cache"
	"flightops/aerodata/internal/client"
	"flightops/aerodata/internal/common"
	"flightops/aerodata/internal/config"
	"flightops/aerodata/internal/db"
	"flightops/aerodata/internal/metrics"
	"flightops/aerodata/internal/processor"
	"flightops/aerodata/internal/ratelimit"
	"flightops/aerodata/internal/services"
)

type Services struct {
	Cache    *cache.Store
	Client   *client.Client
	Limiter  *ratelimit.Limiter
	Airports *services.AirportService
}

type Dependencies struct {
	Config   *config.Config
	Metrics  *metrics.MetricsRegistry
	Services *Services
}

// InitDependencies wires the pipeline bottom-up: processor, cache store,
// upstream client, rate limiter, then the airport service on top. db.InitORM
// must have run first.
func InitDependencies(cfg *config.Config, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	proc := processor.New(analysis.RunwayConfig{WideBodyRequiresILS: true})
	store := cache.New(db.PgDB, proc)

	apiClient := client.New(cfg.APIBaseURL, cfg.APIToken)

	redisClient := common.NewRedisClient(cfg)
	limiter := ratelimit.New(redisClient, ratelimit.PolicyForProfile(cfg.RateLimitProfile))

	airportSvc := services.NewAirportService(store, apiClient, limiter, metricsReg)

	return &Dependencies{
		Config:  cfg,
		Metrics: metricsReg,
		Services: &Services{
			Cache:    store,
			Client:   apiClient,
			Limiter:  limiter,
			Airports: airportSvc,
		},
	}, nil
}
