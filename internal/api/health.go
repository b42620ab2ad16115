package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"flightops/aerodata/internal/models/entities"
	"flightops/aerodata/internal/services"
)

// HealthCheckHandler handles GET /healthCheck
//
// @Summary Health check
// @Description Reports database, cache, upstream API and rate limiter health.
// @Tags Misc
// @Success 200 {object} entities.HealthCheckResponse
// @Router /healthCheck [get]
func HealthCheckHandler(db *sqlx.DB, svc *services.AirportService, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		checks := make(map[string]entities.ServiceStatus)

		// Postgres probe is skipped in the embedded sqlite profile
		if db != nil {
			pgStatus := "ok"
			pgDetails := "Postgres Connected"
			if err := db.Ping(); err != nil {
				pgStatus = "down"
				pgDetails = err.Error()
			}
			checks["postgres"] = entities.ServiceStatus{
				Status:  pgStatus,
				Details: pgDetails,
			}
		}

		pipeline := svc.HealthCheck(r.Context())
		checks["cache"] = entities.ServiceStatus{Status: pipeline.Cache}
		checks["aviation_api"] = entities.ServiceStatus{Status: pipeline.API}
		checks["rate_limiter"] = entities.ServiceStatus{Status: pipeline.RateLimit}

		overallStatus := pipeline.Overall
		for _, svcStatus := range checks {
			if svcStatus.Status == "down" {
				overallStatus = "down"
				break
			}
		}

		now := time.Now()
		uptime := now.Sub(upSince).Round(time.Second).String()

		resp := entities.HealthCheckResponse{
			Services: checks,
			Status:   overallStatus,
			Uptime:   uptime,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
