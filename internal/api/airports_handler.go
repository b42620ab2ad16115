package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"flightops/aerodata/internal/client"
	"flightops/aerodata/internal/common"
	"flightops/aerodata/internal/logging"
	"flightops/aerodata/internal/middleware"
	"flightops/aerodata/internal/models/dtos"
	"flightops/aerodata/internal/services"
)

const maxBatchIdentifiers = 50

// GetAirportHandler handles GET /api/v1/airports/{icao}
//
// @Summary Get one airport
// @Description Resolves a single airport by ICAO or local identifier, cache first.
// @Tags Airports
// @Produce json
// @Param icao path string true "Airport identifier"
// @Success 200 {object} dtos.APIResponse
// @Failure 400,404,429 {object} dtos.APIResponse
// @Router /api/v1/airports/{icao} [get]
func GetAirportHandler(svc *services.AirportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		icao := chi.URLParam(r, "icao")
		if icao == "" {
			common.RespondError(w, initTime, nil, "Missing airport identifier", http.StatusBadRequest)
			return
		}

		result, err := svc.GetAirport(r.Context(), icao)
		if err != nil {
			if client.IsInvalidRequest(err) {
				common.RespondError(w, initTime, err, "Invalid airport identifier", http.StatusBadRequest)
				return
			}
			common.RespondError(w, initTime, err, "Airport lookup failed", http.StatusInternalServerError)
			return
		}

		requestID, _ := r.Context().Value(middleware.RequestIDKey).(string)
		log := logging.WithAirport(requestID, icao, "airports/{icao}")

		if result.Data == nil {
			if result.RateLimited {
				log.Warnw("Lookup denied, quota exhausted and nothing cached")
				w.Header().Set("Retry-After", "60")
				common.RespondError(w, initTime, nil, "Quota exhausted and no cached data available", http.StatusTooManyRequests)
				return
			}
			common.RespondError(w, initTime, nil, "Airport not found", http.StatusNotFound)
			return
		}

		common.RespondSuccess(w, initTime, "Airport resolved", result)
	}
}

// BatchAirportsHandler handles GET /api/v1/airports?icao=KJFK,EGLL,...
//
// @Summary Get several airports
// @Description Resolves up to 50 comma-separated identifiers. Individual
// failures are reported per item and never fail the batch.
// @Tags Airports
// @Produce json
// @Param icao query string true "Comma-separated identifiers"
// @Success 200 {object} dtos.APIResponse
// @Failure 400 {object} dtos.APIResponse
// @Router /api/v1/airports [get]
func BatchAirportsHandler(svc *services.AirportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		ids := common.SplitIdentList(r.URL.Query().Get("icao"))
		if len(ids) == 0 {
			common.RespondError(w, initTime, nil, "Missing icao query parameter", http.StatusBadRequest)
			return
		}
		if len(ids) > maxBatchIdentifiers {
			common.RespondError(w, initTime, nil, "Too many identifiers, maximum is "+strconv.Itoa(maxBatchIdentifiers), http.StatusBadRequest)
			return
		}

		result := svc.GetAirportsBatch(r.Context(), ids)
		common.RespondSuccess(w, initTime, "Batch resolved", result)
	}
}

// SearchAirportsHandler handles GET /api/v1/airports/search?q=...
//
// @Summary Search airports
// @Description Free-text search against the upstream provider, with resolved
// results written back into the cache.
// @Tags Airports
// @Produce json
// @Param q path string true "Search query, at least 2 characters"
// @Param limit query int false "Maximum results"
// @Param type query string false "Airport type filter"
// @Success 200 {object} dtos.APIResponse
// @Failure 400 {object} dtos.APIResponse
// @Router /api/v1/airports/search [get]
func SearchAirportsHandler(svc *services.AirportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		query := r.URL.Query().Get("q")

		opts := dtos.SearchOptions{Type: r.URL.Query().Get("type")}
		if qs := r.URL.Query().Get("limit"); qs != "" {
			n, err := strconv.Atoi(qs)
			if err != nil || n < 1 {
				common.RespondError(w, initTime, nil, "Invalid limit parameter", http.StatusBadRequest)
				return
			}
			opts.Limit = n
		}

		airports, err := svc.SearchAirports(r.Context(), query, opts)
		if err != nil {
			if client.IsInvalidRequest(err) {
				common.RespondError(w, initTime, err, "Invalid search query", http.StatusBadRequest)
				return
			}
			common.RespondError(w, initTime, err, "Search failed", http.StatusInternalServerError)
			return
		}

		common.RespondSuccess(w, initTime, "Search completed", map[string]any{
			"query":    query,
			"count":    len(airports),
			"airports": airports,
		})
	}
}
