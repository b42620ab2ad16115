package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"flightops/aerodata/internal/common"
	"flightops/aerodata/internal/services"
)

// CacheStatsHandler handles GET /api/v1/admin/cache/stats
//
// @Summary Cache statistics
// @Tags Admin
// @Produce json
// @Success 200 {object} dtos.APIResponse
// @Router /api/v1/admin/cache/stats [get]
func CacheStatsHandler(svc *services.AirportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		stats, err := svc.CacheStats(r.Context())
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to read cache stats", http.StatusInternalServerError)
			return
		}

		common.RespondSuccess(w, initTime, "Cache stats", stats)
	}
}

// CacheCleanupHandler handles POST /api/v1/admin/cache/cleanup
// Removes entries too sparse to be worth keeping.
//
// @Summary Purge low-quality cache entries
// @Tags Admin
// @Produce json
// @Success 200 {object} dtos.APIResponse
// @Router /api/v1/admin/cache/cleanup [post]
func CacheCleanupHandler(svc *services.AirportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		removed, err := svc.CleanupCache(r.Context())
		if err != nil {
			common.RespondError(w, initTime, err, "Cache cleanup failed", http.StatusInternalServerError)
			return
		}

		common.RespondSuccess(w, initTime, "Cache cleanup completed", map[string]any{
			"removed": removed,
		})
	}
}

// CacheInvalidateHandler handles DELETE /api/v1/admin/cache/{icao}
//
// @Summary Invalidate one cached airport
// @Tags Admin
// @Produce json
// @Success 200 {object} dtos.APIResponse
// @Failure 400 {object} dtos.APIResponse
// @Router /api/v1/admin/cache/{icao} [delete]
func CacheInvalidateHandler(svc *services.AirportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		icao := chi.URLParam(r, "icao")
		if icao == "" {
			common.RespondError(w, initTime, nil, "Missing airport identifier", http.StatusBadRequest)
			return
		}

		if err := svc.InvalidateCached(r.Context(), icao); err != nil {
			common.RespondError(w, initTime, err, "Failed to invalidate entry", http.StatusInternalServerError)
			return
		}

		common.RespondSuccess(w, initTime, "Cache entry invalidated", map[string]any{
			"icao": icao,
		})
	}
}
