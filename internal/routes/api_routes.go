package routes

import (
	"github.com/go-chi/chi/v5"

	"flightops/aerodata/internal/api"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
// This keeps API route registration separate from the main router setup
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies) {

	airportSvc := deps.Services.Airports

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Get("/airports", api.BatchAirportsHandler(airportSvc))
		v1.Get("/airports/search", api.SearchAirportsHandler(airportSvc))
		v1.Get("/airports/{icao}", api.GetAirportHandler(airportSvc))

		v1.Route("/admin/cache", func(admin chi.Router) {
			admin.Get("/stats", api.CacheStatsHandler(airportSvc))
			admin.Post("/cleanup", api.CacheCleanupHandler(airportSvc))
			admin.Delete("/{icao}", api.CacheInvalidateHandler(airportSvc))
		})
	})
}
