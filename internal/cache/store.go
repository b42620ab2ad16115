package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"

	"flightops/aerodata/internal/constants"
	"flightops/aerodata/internal/logging"
	"flightops/aerodata/internal/models/dtos"
	"flightops/aerodata/internal/models/entities"
	gormmodels "flightops/aerodata/internal/models/gorm"
	"flightops/aerodata/internal/normalize"
	"flightops/aerodata/internal/processor"
)

// Store is the permanent airport cache. The primary backing is a persistent
// keyed store; on any backing-store error the Store switches itself into an
// in-memory map for the rest of the process lifetime. The switch is one-way:
// re-probing a failing store on every request would amplify outage impact.
// Entries are retained indefinitely; there is no time-based eviction.
type Store struct {
	db   *gormlib.DB
	proc *processor.Processor
	mem  *gocache.Cache

	degraded    atomic.Bool
	degradeOnce sync.Once
}

// Stats summarizes cache contents.
type Stats struct {
	Entries         int64   `json:"entries"`
	AvgCompleteness float64 `json:"avg_completeness"`
	Degraded        bool    `json:"degraded"`
}

// New creates a Store backed by db. A nil db starts directly in memory mode.
func New(db *gormlib.DB, proc *processor.Processor) *Store {
	s := &Store{
		db:   db,
		proc: proc,
		mem:  gocache.New(gocache.NoExpiration, 0),
	}
	if db == nil {
		s.degraded.Store(true)
	}
	return s
}

// Degraded reports whether the store has switched to the in-memory path.
func (s *Store) Degraded() bool {
	return s.degraded.Load()
}

// Get returns the cached airport for icao, or false on a miss. Corrupt rows
// are absorbed as misses, never surfaced.
func (s *Store) Get(ctx context.Context, icao string) (*entities.ProcessedAirport, bool) {
	id := normalize.Ident(icao)

	if s.degraded.Load() {
		return s.memGet(id)
	}

	var row gormmodels.AirportCache
	err := s.db.WithContext(ctx).Where("icao = ?", id).First(&row).Error
	if err == gormlib.ErrRecordNotFound {
		return nil, false
	}
	if err != nil {
		s.degrade(err)
		return s.memGet(id)
	}

	airport, err := rowToAirport(&row)
	if err != nil {
		logging.Warn("Corrupt cache row treated as miss",
			"icao", id,
			"error", err.Error(),
		)
		return nil, false
	}
	return airport, true
}

// Set processes the raw record and writes the derived representation through
// to the cache, keyed by ICAO. The completeness score is recomputed on every
// write, never inherited.
func (s *Store) Set(ctx context.Context, raw *dtos.AirportRecord, source string) (*entities.ProcessedAirport, error) {
	airport, err := s.proc.Process(raw, source)
	if err != nil {
		return nil, err
	}

	if s.degraded.Load() {
		s.mem.Set(airport.ICAO, airport, gocache.NoExpiration)
		return airport, nil
	}

	row, err := airportToRow(airport, raw)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(row).Error
	if err != nil {
		s.degrade(err)
		s.mem.Set(airport.ICAO, airport, gocache.NoExpiration)
	}
	return airport, nil
}

// Process runs the processing pipeline without persisting. Fallback records
// pass through here: a placeholder must never shadow a later real fetch.
func (s *Store) Process(raw *dtos.AirportRecord, source string) (*entities.ProcessedAirport, error) {
	return s.proc.Process(raw, source)
}

// GetBatch returns all cache hits among icaos, keyed by normalized identifier.
func (s *Store) GetBatch(ctx context.Context, icaos []string) map[string]*entities.ProcessedAirport {
	hits := map[string]*entities.ProcessedAirport{}

	if s.degraded.Load() {
		for _, icao := range icaos {
			if a, ok := s.memGet(normalize.Ident(icao)); ok {
				hits[a.ICAO] = a
			}
		}
		return hits
	}

	ids := make([]string, 0, len(icaos))
	for _, icao := range icaos {
		ids = append(ids, normalize.Ident(icao))
	}
	if len(ids) == 0 {
		return hits
	}

	var rows []gormmodels.AirportCache
	err := s.db.WithContext(ctx).Where("icao IN ?", ids).Find(&rows).Error
	if err != nil {
		s.degrade(err)
		return s.GetBatch(ctx, icaos)
	}

	for i := range rows {
		airport, err := rowToAirport(&rows[i])
		if err != nil {
			logging.Warn("Corrupt cache row treated as miss",
				"icao", rows[i].ICAO,
				"error", err.Error(),
			)
			continue
		}
		hits[airport.ICAO] = airport
	}
	return hits
}

// SetBatch writes many raw records, collecting per-item errors instead of
// aborting on the first failure.
func (s *Store) SetBatch(ctx context.Context, raws []*dtos.AirportRecord, source string) map[string]error {
	errs := map[string]error{}
	for _, raw := range raws {
		if raw == nil {
			continue
		}
		if _, err := s.Set(ctx, raw, source); err != nil {
			key := normalize.Ident(raw.ICAOCode)
			if key == "" {
				key = normalize.Ident(raw.Ident)
			}
			errs[key] = err
		}
	}
	return errs
}

// Invalidate removes one entry.
func (s *Store) Invalidate(ctx context.Context, icao string) error {
	id := normalize.Ident(icao)

	if s.degraded.Load() {
		s.mem.Delete(id)
		return nil
	}

	err := s.db.WithContext(ctx).Delete(&gormmodels.AirportCache{}, "icao = ?", id).Error
	if err != nil {
		s.degrade(err)
		s.mem.Delete(id)
	}
	return nil
}

// Cleanup removes entries whose completeness marks them corrupt/unusable.
// This is the only removal path; entries never expire by age.
func (s *Store) Cleanup(ctx context.Context) (int64, error) {
	if s.degraded.Load() {
		var removed int64
		for key, item := range s.mem.Items() {
			if a, ok := item.Object.(*entities.ProcessedAirport); ok {
				if a.DataQuality.CompletenessScore < constants.MinUsableCompleteness {
					s.mem.Delete(key)
					removed++
				}
			}
		}
		return removed, nil
	}

	res := s.db.WithContext(ctx).
		Where("completeness < ?", constants.MinUsableCompleteness).
		Delete(&gormmodels.AirportCache{})
	if res.Error != nil {
		s.degrade(res.Error)
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// Stats reports cache size and average completeness.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	if s.degraded.Load() {
		stats := &Stats{Degraded: true}
		var total float64
		for _, item := range s.mem.Items() {
			if a, ok := item.Object.(*entities.ProcessedAirport); ok {
				stats.Entries++
				total += float64(a.DataQuality.CompletenessScore)
			}
		}
		if stats.Entries > 0 {
			stats.AvgCompleteness = total / float64(stats.Entries)
		}
		return stats, nil
	}

	stats := &Stats{}
	if err := s.db.WithContext(ctx).Model(&gormmodels.AirportCache{}).Count(&stats.Entries).Error; err != nil {
		s.degrade(err)
		return s.Stats(ctx)
	}
	if stats.Entries > 0 {
		row := s.db.WithContext(ctx).Model(&gormmodels.AirportCache{}).
			Select("AVG(completeness)").Row()
		if err := row.Scan(&stats.AvgCompleteness); err != nil {
			logging.Warn("Cache stats aggregate failed", "error", err.Error())
		}
	}
	return stats, nil
}

// Status reports which backing path is serving.
func (s *Store) Status() string {
	if s.degraded.Load() {
		return "degraded"
	}
	return "ok"
}

// degrade flips the store into memory mode, logging the transition exactly once.
func (s *Store) degrade(err error) {
	s.degradeOnce.Do(func() {
		s.degraded.Store(true)
		logging.Warn("Cache backing store failed, switching to in-memory mode for process lifetime",
			"error", err.Error(),
		)
	})
}

func (s *Store) memGet(id string) (*entities.ProcessedAirport, bool) {
	if v, ok := s.mem.Get(id); ok {
		if a, ok := v.(*entities.ProcessedAirport); ok {
			return a, true
		}
	}
	return nil, false
}

// coreDoc is the identity/location/classification sub-document persisted in
// the core_data column.
type coreDoc struct {
	ICAO           string                  `json:"icao"`
	IATA           string                  `json:"iata,omitempty"`
	Name           string                  `json:"name"`
	Coordinates    entities.Coordinates    `json:"coordinates"`
	Location       entities.Location       `json:"location"`
	Classification entities.Classification `json:"classification"`
	DataQuality    entities.DataQuality    `json:"data_quality"`
}

func airportToRow(a *entities.ProcessedAirport, raw *dtos.AirportRecord) (*gormmodels.AirportCache, error) {
	core, err := json.Marshal(coreDoc{
		ICAO:           a.ICAO,
		IATA:           a.IATA,
		Name:           a.Name,
		Coordinates:    a.Coordinates,
		Location:       a.Location,
		Classification: a.Classification,
		DataQuality:    a.DataQuality,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal core document: %w", err)
	}

	runways, err := json.Marshal(a.Runways)
	if err != nil {
		return nil, fmt.Errorf("marshal runway document: %w", err)
	}
	comms, err := json.Marshal(a.Communications)
	if err != nil {
		return nil, fmt.Errorf("marshal communication document: %w", err)
	}
	nav, err := json.Marshal(a.Navigation)
	if err != nil {
		return nil, fmt.Errorf("marshal navigation document: %w", err)
	}
	caps, err := json.Marshal(a.Capabilities)
	if err != nil {
		return nil, fmt.Errorf("marshal capability document: %w", err)
	}
	rawDoc, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("marshal raw snapshot: %w", err)
	}

	now := time.Now().UTC()
	return &gormmodels.AirportCache{
		ICAO:              a.ICAO,
		IATA:              a.IATA,
		Name:              a.Name,
		CoreData:          string(core),
		RunwayData:        string(runways),
		CommunicationData: string(comms),
		NavigationData:    string(nav),
		CapabilityData:    string(caps),
		RawPayload:        string(rawDoc),
		Completeness:      a.DataQuality.CompletenessScore,
		UpdatedAt:         now,
		LastVerifiedAt:    now,
	}, nil
}

func rowToAirport(row *gormmodels.AirportCache) (*entities.ProcessedAirport, error) {
	var core coreDoc
	if err := json.Unmarshal([]byte(row.CoreData), &core); err != nil {
		return nil, fmt.Errorf("unmarshal core document: %w", err)
	}

	a := &entities.ProcessedAirport{
		ICAO:           core.ICAO,
		IATA:           core.IATA,
		Name:           core.Name,
		Coordinates:    core.Coordinates,
		Location:       core.Location,
		Classification: core.Classification,
		DataQuality:    core.DataQuality,
	}

	if err := json.Unmarshal([]byte(row.RunwayData), &a.Runways); err != nil {
		return nil, fmt.Errorf("unmarshal runway document: %w", err)
	}
	if err := json.Unmarshal([]byte(row.CommunicationData), &a.Communications); err != nil {
		return nil, fmt.Errorf("unmarshal communication document: %w", err)
	}
	if err := json.Unmarshal([]byte(row.NavigationData), &a.Navigation); err != nil {
		return nil, fmt.Errorf("unmarshal navigation document: %w", err)
	}
	if err := json.Unmarshal([]byte(row.CapabilityData), &a.Capabilities); err != nil {
		return nil, fmt.Errorf("unmarshal capability document: %w", err)
	}
	return a, nil
}
