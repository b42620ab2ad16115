package dtos

import (
	"flightops/aerodata/internal/models/entities"
)

// APIResponse is the standard envelope for every JSON endpoint.
type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	ResponseTime string `json:"response_time,omitempty"`
	Data         any    `json:"data,omitempty"`
}

// SearchResponse wraps the upstream search endpoint's payload.
type SearchResponse struct {
	Airports []AirportRecord `json:"airports"`
}

// BatchResponse wraps the upstream batch endpoint's payload.
type BatchResponse struct {
	Airports []AirportRecord `json:"airports"`
}

// SearchOptions narrows a free-text airport search.
type SearchOptions struct {
	Limit int
	Type  string
}

// AirportLookupResult is the service-facing result for a single lookup.
// Data is nil when every source failed; Source then names the last source tried.
type AirportLookupResult struct {
	Data        *entities.ProcessedAirport `json:"data"`
	Source      string                     `json:"source"`
	Cached      bool                       `json:"cached"`
	RateLimited bool                       `json:"rate_limited"`
}

// BatchItemError reports one failed identifier inside a batch lookup.
type BatchItemError struct {
	ICAO    string `json:"icao"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BatchLookupResult is the service-facing result for a batch lookup.
// Sibling items never fail because of one bad identifier.
type BatchLookupResult struct {
	Airports  []*entities.ProcessedAirport `json:"airports"`
	Sources   map[string]string            `json:"sources"`
	Errors    []BatchItemError             `json:"errors"`
	FromCache int                          `json:"from_cache"`
	FromAPI   int                          `json:"from_api"`
}

// HealthStatus is the aggregate health report for the pipeline.
type HealthStatus struct {
	Cache     string `json:"cache"`
	API       string `json:"api"`
	RateLimit string `json:"rate_limit"`
	Overall   string `json:"overall"`
}
