package services

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"flightops/aerodata/internal/cache"
	"flightops/aerodata/internal/client"
	"flightops/aerodata/internal/constants"
	"flightops/aerodata/internal/logging"
	"flightops/aerodata/internal/metrics"
	"flightops/aerodata/internal/models/dtos"
	"flightops/aerodata/internal/models/entities"
	"flightops/aerodata/internal/normalize"
	"flightops/aerodata/internal/ratelimit"
)

// AirportService is the cache-first façade over the acquisition pipeline:
// cache hit short-circuits, otherwise a rate-limiter-gated upstream call is
// processed and written through to the cache. On any stage failure control
// falls back toward cache, then toward the static dataset.
type AirportService struct {
	cache   *cache.Store
	client  *client.Client
	limiter *ratelimit.Limiter
	metrics *metrics.MetricsRegistry
}

// NewAirportService wires the façade. metricsReg may be nil in tests.
func NewAirportService(cacheStore *cache.Store, apiClient *client.Client, limiter *ratelimit.Limiter, metricsReg *metrics.MetricsRegistry) *AirportService {
	return &AirportService{
		cache:   cacheStore,
		client:  apiClient,
		limiter: limiter,
		metrics: metricsReg,
	}
}

// GetAirport resolves one airport. A lookup whose every source failed returns
// a nil-data result annotated with the last source tried, not an error, so
// callers can render "unavailable" gracefully. Malformed identifiers are the
// one hard error.
func (s *AirportService) GetAirport(ctx context.Context, id string) (*dtos.AirportLookupResult, error) {
	icao := normalize.Ident(id)

	if airport, ok := s.cache.Get(ctx, icao); ok {
		s.countCache("single", true)
		return &dtos.AirportLookupResult{
			Data:   airport,
			Source: string(constants.DataSourceCache),
			Cached: true,
		}, nil
	}
	s.countCache("single", false)

	if st := s.limiter.Check(ctx, constants.RateLimitServiceUpstream); !st.Allowed {
		s.countRateLimited()
		// Fall back to cache once more before reporting the quota hit
		if airport, ok := s.cache.Get(ctx, icao); ok {
			return &dtos.AirportLookupResult{
				Data:        airport,
				Source:      string(constants.DataSourceCache),
				Cached:      true,
				RateLimited: true,
			}, nil
		}
		logging.Warn("Upstream quota exhausted and cache missed",
			"icao", icao,
			"retry_after_s", int(st.RetryAfter.Seconds()),
		)
		return &dtos.AirportLookupResult{
			Source:      string(constants.DataSourceCache),
			RateLimited: true,
		}, nil
	}

	s.limiter.Record(ctx, constants.RateLimitServiceUpstream)

	raw, source, err := s.client.GetByIdent(ctx, icao)
	if err != nil {
		if client.IsInvalidRequest(err) {
			return nil, err
		}
		if client.IsRateLimited(err) {
			s.countUpstream("rate_limited")
			if airport, ok := s.cache.Get(ctx, icao); ok {
				return &dtos.AirportLookupResult{
					Data:        airport,
					Source:      string(constants.DataSourceCache),
					Cached:      true,
					RateLimited: true,
				}, nil
			}
			return &dtos.AirportLookupResult{
				Source:      string(constants.DataSourceCache),
				RateLimited: true,
			}, nil
		}
		s.countUpstream("error")
		return &dtos.AirportLookupResult{Source: string(constants.DataSourceAPI)}, nil
	}
	s.countUpstream(source)

	// Fallback records are served but never persisted; the permanent cache
	// holds provider data only.
	var (
		airport *entities.ProcessedAirport
		perr    error
	)
	if source == string(constants.DataSourceFallback) {
		airport, perr = s.cache.Process(raw, source)
	} else {
		airport, perr = s.cache.Set(ctx, raw, source)
	}
	if perr != nil {
		// The provider record itself was unusable; absorbed per policy
		logging.Warn("Fetched record failed processing",
			"icao", icao,
			"source", source,
			"error", perr.Error(),
		)
		return &dtos.AirportLookupResult{Source: source}, nil
	}
	s.countProcessed(airport)

	return &dtos.AirportLookupResult{
		Data:   airport,
		Source: source,
	}, nil
}

// GetAirportsBatch resolves many identifiers: batch cache lookup first, then
// one upstream batch call for the misses. An identifier that errors at the
// API layer is retried against cache as a last resort before being recorded
// as a per-item error; the call never fails wholesale.
func (s *AirportService) GetAirportsBatch(ctx context.Context, ids []string) *dtos.BatchLookupResult {
	result := &dtos.BatchLookupResult{
		Airports: []*entities.ProcessedAirport{},
		Sources:  map[string]string{},
		Errors:   []dtos.BatchItemError{},
	}
	if s.metrics != nil {
		s.metrics.BatchSize.Observe(float64(len(ids)))
	}

	hits := s.cache.GetBatch(ctx, ids)
	var missing []string
	seen := map[string]bool{}
	for _, id := range ids {
		icao := normalize.Ident(id)
		if seen[icao] {
			continue
		}
		seen[icao] = true

		if airport, ok := hits[icao]; ok {
			s.countCache("batch", true)
			result.Airports = append(result.Airports, airport)
			result.Sources[icao] = string(constants.DataSourceCache)
			result.FromCache++
			continue
		}
		s.countCache("batch", false)
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return result
	}

	if st := s.limiter.Check(ctx, constants.RateLimitServiceUpstream); !st.Allowed {
		s.countRateLimited()
		for _, id := range missing {
			result.Errors = append(result.Errors, dtos.BatchItemError{
				ICAO:    normalize.Ident(id),
				Code:    constants.ErrCodeRateLimited,
				Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
			})
		}
		return result
	}

	// One recorded request per upstream chunk; chunks are issued sequentially
	for i := 0; i < len(missing); i += constants.BatchChunkSize {
		s.limiter.Record(ctx, constants.RateLimitServiceUpstream)
	}

	batch := s.client.GetBatch(ctx, missing)

	for icao, raw := range batch.Records {
		source := batch.Sources[icao]
		var (
			airport *entities.ProcessedAirport
			err     error
		)
		if source == string(constants.DataSourceFallback) {
			airport, err = s.cache.Process(raw, source)
		} else {
			airport, err = s.cache.Set(ctx, raw, source)
		}
		if err != nil {
			result.Errors = append(result.Errors, dtos.BatchItemError{
				ICAO:    icao,
				Code:    constants.ErrCodeAPIError,
				Message: "record failed processing: " + err.Error(),
			})
			continue
		}
		s.countProcessed(airport)
		s.countUpstream(source)
		result.Airports = append(result.Airports, airport)
		result.Sources[icao] = source
		result.FromAPI++
	}

	for rawID, cerr := range batch.Errors {
		icao := normalize.Ident(rawID)
		// Last resort: the cache may have gained the entry since the batch read
		if airport, ok := s.cache.Get(ctx, icao); ok {
			result.Airports = append(result.Airports, airport)
			result.Sources[icao] = string(constants.DataSourceCache)
			result.FromCache++
			continue
		}
		result.Errors = append(result.Errors, dtos.BatchItemError{
			ICAO:    icao,
			Code:    cerr.Code,
			Message: cerr.Message,
		})
	}

	return result
}

// SearchAirports runs a free-text query. Results are never served from cache
// (result sets vary too much to key reliably) but successful hits are
// opportunistically written back for future direct lookups.
func (s *AirportService) SearchAirports(ctx context.Context, query string, opts dtos.SearchOptions) ([]*entities.ProcessedAirport, error) {
	if st := s.limiter.Check(ctx, constants.RateLimitServiceUpstream); !st.Allowed {
		s.countRateLimited()
		return []*entities.ProcessedAirport{}, nil
	}
	s.limiter.Record(ctx, constants.RateLimitServiceUpstream)

	raws, err := s.client.Search(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	results := make([]*entities.ProcessedAirport, len(raws))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range raws {
		i := i
		g.Go(func() error {
			airport, err := s.cache.Set(gctx, &raws[i], string(constants.DataSourceAPI))
			if err != nil {
				logging.Debug("Search result skipped",
					"ident", raws[i].Ident,
					"error", err.Error(),
				)
				return nil
			}
			results[i] = airport
			return nil
		})
	}
	_ = g.Wait()

	out := make([]*entities.ProcessedAirport, 0, len(results))
	for _, a := range results {
		if a != nil {
			out = append(out, a)
		}
	}
	return out, nil
}

// HealthCheck reports the pipeline's dependency health.
func (s *AirportService) HealthCheck(ctx context.Context) *dtos.HealthStatus {
	status := &dtos.HealthStatus{
		Cache:     s.cache.Status(),
		API:       "ok",
		RateLimit: "ok",
		Overall:   "ok",
	}

	if err := s.client.CheckHealth(ctx); err != nil {
		status.API = "down"
	}
	if !s.limiter.Healthy(ctx) {
		// Quota tracking is degraded but requests still serve
		status.RateLimit = "fail-open"
	}

	if status.API == "down" && strings.HasPrefix(status.Cache, "degraded") {
		status.Overall = "down"
	} else if status.API == "down" || status.Cache != "ok" || status.RateLimit != "ok" {
		status.Overall = "degraded"
	}
	return status
}

// CacheStats exposes store statistics for the admin surface.
func (s *AirportService) CacheStats(ctx context.Context) (*cache.Stats, error) {
	stats, err := s.cache.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.CacheEntries.Set(float64(stats.Entries))
	}
	return stats, nil
}

// CleanupCache removes entries too sparse to be useful, returning the count removed.
func (s *AirportService) CleanupCache(ctx context.Context) (int64, error) {
	return s.cache.Cleanup(ctx)
}

// InvalidateCached drops one airport from the cache so the next lookup refetches it.
func (s *AirportService) InvalidateCached(ctx context.Context, id string) error {
	return s.cache.Invalidate(ctx, normalize.Ident(id))
}

func (s *AirportService) countCache(kind string, hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.CacheHitsTotal.WithLabelValues(kind).Inc()
	} else {
		s.metrics.CacheMissesTotal.WithLabelValues(kind).Inc()
	}
}

func (s *AirportService) countUpstream(outcome string) {
	if s.metrics != nil {
		s.metrics.UpstreamRequestsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *AirportService) countRateLimited() {
	if s.metrics != nil {
		s.metrics.RateLimitRejections.Inc()
	}
}

func (s *AirportService) countProcessed(a *entities.ProcessedAirport) {
	if s.metrics == nil {
		return
	}
	s.metrics.AirportsProcessedTotal.Inc()
	s.metrics.CompletenessScore.Observe(float64(a.DataQuality.CompletenessScore))
}
