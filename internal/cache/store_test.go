package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	gormlib "gorm.io/gorm"
	"gorm.io/gorm/logger"

	"flightops/aerodata/internal/analysis"
	"flightops/aerodata/internal/models/dtos"
	gormmodels "flightops/aerodata/internal/models/gorm"
	"flightops/aerodata/internal/processor"
)

func testDB(t *testing.T) *gormlib.DB {
	t.Helper()
	db, err := gormlib.Open(sqlite.Open(":memory:"), &gormlib.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&gormmodels.AirportCache{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func testStore(t *testing.T) *Store {
	return New(testDB(t), processor.New(analysis.RunwayConfig{}))
}

func rawAirport(icao string) *dtos.AirportRecord {
	return &dtos.AirportRecord{
		ICAOCode:     icao,
		Name:         icao + " International",
		Type:         "large_airport",
		LatitudeDeg:  "41.0",
		LongitudeDeg: "-73.0",
		ElevationFt:  "100",
		Country:      "US",
		Runways: []dtos.RunwayRecord{
			{ID: "1", LEIdent: "09", HEIdent: "27", LengthFt: "8000", WidthFt: "150", Surface: "ASP", Lighted: "1"},
		},
		Frequencies: []dtos.FrequencyRecord{
			{Type: "TWR", FrequencyMhz: "118.7"},
		},
	}
}

func TestStore_RoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	written, err := s.Set(ctx, rawAirport("KAAA"), "api")
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := s.Get(ctx, "kaaa")
	if !ok {
		t.Fatal("Expected cache hit")
	}

	// Equal ignoring timestamps
	written.DataQuality.LastUpdated = time.Time{}
	got.DataQuality.LastUpdated = time.Time{}
	wj, _ := json.Marshal(written)
	gj, _ := json.Marshal(got)
	if string(wj) != string(gj) {
		t.Errorf("Round trip mismatch:\nwrote %s\nread  %s", wj, gj)
	}
}

func TestStore_MissReturnsFalse(t *testing.T) {
	s := testStore(t)
	if _, ok := s.Get(context.Background(), "KZZZ"); ok {
		t.Error("Expected miss for unknown identifier")
	}
}

func TestStore_SetRecomputesCompleteness(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	full, err := s.Set(ctx, rawAirport("KBBB"), "api")
	if err != nil {
		t.Fatal(err)
	}

	sparse := &dtos.AirportRecord{
		ICAOCode: "KBBB", Name: "KBBB International",
		LatitudeDeg: "41.0", LongitudeDeg: "-73.0",
	}
	rewritten, err := s.Set(ctx, sparse, "api")
	if err != nil {
		t.Fatal(err)
	}

	if rewritten.DataQuality.CompletenessScore >= full.DataQuality.CompletenessScore {
		t.Errorf("Completeness must be recomputed, not inherited: full=%d rewritten=%d",
			full.DataQuality.CompletenessScore, rewritten.DataQuality.CompletenessScore)
	}

	got, _ := s.Get(ctx, "KBBB")
	if got.DataQuality.CompletenessScore != rewritten.DataQuality.CompletenessScore {
		t.Error("Stored completeness does not match the rewritten value")
	}
}

func TestStore_CorruptRowIsAMiss(t *testing.T) {
	db := testDB(t)
	s := New(db, processor.New(analysis.RunwayConfig{}))

	db.Create(&gormmodels.AirportCache{
		ICAO: "KBAD", Name: "Broken",
		CoreData: "{not json", RunwayData: "{}", CommunicationData: "{}",
		NavigationData: "{}", CapabilityData: "{}",
		Completeness: 50,
	})

	if _, ok := s.Get(context.Background(), "KBAD"); ok {
		t.Error("Corrupt row must be absorbed as a miss")
	}
}

func TestStore_BatchOperations(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	errs := s.SetBatch(ctx, []*dtos.AirportRecord{
		rawAirport("KAAA"),
		rawAirport("KBBB"),
		{ICAOCode: "KCCC"}, // missing name and coordinates
	}, "api")

	if len(errs) != 1 {
		t.Fatalf("Expected 1 per-item error, got %v", errs)
	}
	if _, ok := errs["KCCC"]; !ok {
		t.Errorf("Expected KCCC error, got %v", errs)
	}

	hits := s.GetBatch(ctx, []string{"KAAA", "KBBB", "KCCC", "KDDD"})
	if len(hits) != 2 {
		t.Errorf("Expected 2 hits, got %d", len(hits))
	}
}

func TestStore_Invalidate(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	s.Set(ctx, rawAirport("KAAA"), "api")
	if err := s.Invalidate(ctx, "KAAA"); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get(ctx, "KAAA"); ok {
		t.Error("Expected miss after invalidation")
	}
}

func TestStore_CleanupRemovesCorruptEntries(t *testing.T) {
	db := testDB(t)
	s := New(db, processor.New(analysis.RunwayConfig{}))
	ctx := context.Background()

	s.Set(ctx, rawAirport("KAAA"), "api")
	db.Create(&gormmodels.AirportCache{
		ICAO: "KLOW", Name: "Junk",
		CoreData: "{}", RunwayData: "{}", CommunicationData: "{}",
		NavigationData: "{}", CapabilityData: "{}",
		Completeness: 5,
	})

	removed, err := s.Cleanup(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 removed entry, got %d", removed)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 1 {
		t.Errorf("Expected 1 surviving entry, got %d", stats.Entries)
	}
}

func TestStore_OneWayDegradation(t *testing.T) {
	db := testDB(t)
	s := New(db, processor.New(analysis.RunwayConfig{}))
	ctx := context.Background()

	// Kill the backing store
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.Close()

	if _, ok := s.Get(ctx, "KAAA"); ok {
		t.Fatal("Expected miss from the dead backing store")
	}
	if !s.Degraded() {
		t.Fatal("Expected one-way switch to memory mode after backing failure")
	}

	// Memory path serves for the rest of the process lifetime
	if _, err := s.Set(ctx, rawAirport("KMEM"), "api"); err != nil {
		t.Fatalf("Memory-mode set failed: %v", err)
	}
	got, ok := s.Get(ctx, "KMEM")
	if !ok || got.ICAO != "KMEM" {
		t.Error("Expected hit from the in-memory path")
	}
	if s.Status() != "degraded" {
		t.Errorf("Expected degraded status, got %s", s.Status())
	}
}

func TestStore_NilDBStartsInMemory(t *testing.T) {
	s := New(nil, processor.New(analysis.RunwayConfig{}))
	ctx := context.Background()

	if !s.Degraded() {
		t.Fatal("Expected memory mode without a backing store")
	}
	if _, err := s.Set(ctx, rawAirport("KAAA"), "api"); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get(ctx, "KAAA"); !ok {
		t.Error("Expected memory hit")
	}
}
