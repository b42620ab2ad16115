package entities

import "time"

// ProcessedAirport is the canonical internal representation of one airport.
// It is produced only by the processor package and is immutable once returned;
// cache writes store a new value keyed by ICAO, never mutate in place.
type ProcessedAirport struct {
	ICAO string `json:"icao"`
	IATA string `json:"iata,omitempty"`
	Name string `json:"name"`

	Coordinates    Coordinates    `json:"coordinates"`
	Location       Location       `json:"location"`
	Classification Classification `json:"classification"`
	Runways        RunwaySummary  `json:"runways"`
	Communications Communications `json:"communications"`
	Navigation     Navigation     `json:"navigation"`
	Capabilities   Capabilities   `json:"capabilities"`
	DataQuality    DataQuality    `json:"data_quality"`
}

type Coordinates struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	ElevationFt *int    `json:"elevation_ft,omitempty"`
}

type Location struct {
	Municipality string `json:"municipality,omitempty"`
	Region       string `json:"region,omitempty"`
	Country      string `json:"country,omitempty"`
	Continent    string `json:"continent,omitempty"`
}

type Classification struct {
	Type             string `json:"type"` // large, medium, small, heliport
	ScheduledService bool   `json:"scheduled_service"`
	SizeCategory     string `json:"size_category"` // major, regional, local, private
}

// RunwaySummary aggregates the surviving (open, deduplicated) runways.
type RunwaySummary struct {
	Count       int            `json:"count"`
	LongestFt   int            `json:"longest_ft"`
	ShortestFt  int            `json:"shortest_ft"`
	Surfaces    []string       `json:"surfaces"`
	Lighted     bool           `json:"lighted"`
	ILSEquipped bool           `json:"ils_equipped"`
	Details     []RunwayDetail `json:"details"`
}

// RunwayDetail is one physical runway after deduplication and normalization.
type RunwayDetail struct {
	LEIdent           string  `json:"le_ident"`
	HEIdent           string  `json:"he_ident"`
	LengthFt          int     `json:"length_ft"`
	WidthFt           int     `json:"width_ft"`
	EffectiveLengthFt int     `json:"effective_length_ft"`
	Surface           string  `json:"surface"`
	Paved             bool    `json:"paved"`
	Lighted           bool    `json:"lighted"`
	LEHeading         float64 `json:"le_heading"`
	HEHeading         float64 `json:"he_heading"`
	PrecisionApproach bool    `json:"precision_approach"`

	Suitability AircraftSuitability `json:"suitability"`
}

// AircraftSuitability reports which aircraft tiers a runway can serve.
type AircraftSuitability struct {
	Light       bool `json:"light"`
	BusinessJet bool `json:"business_jet"`
	Regional    bool `json:"regional"`
	NarrowBody  bool `json:"narrow_body"`
	WideBody    bool `json:"wide_body"`
}

// Communications describes radio capability derived from the frequency list.
type Communications struct {
	HasTower    bool `json:"has_tower"`
	HasGround   bool `json:"has_ground"`
	HasApproach bool `json:"has_approach"`
	HasATIS     bool `json:"has_atis"`

	// PrimaryFrequencies is best-effort: the first provider record per type is
	// taken as primary, trusting upstream ordering as a priority proxy.
	PrimaryFrequencies map[string]float64           `json:"primary_frequencies"`
	ByType             map[string][]FrequencyDetail `json:"by_type"`
	ComplexityScore    int                          `json:"complexity_score"`
}

type FrequencyDetail struct {
	Type         string  `json:"type"`
	Description  string  `json:"description,omitempty"`
	FrequencyMhz float64 `json:"frequency_mhz"`
}

// Navigation describes navaid and approach capability.
type Navigation struct {
	NavaidCount       int                       `json:"navaid_count"`
	HasILS            bool                      `json:"has_ils"`
	HasVOR            bool                      `json:"has_vor"`
	HasNDB            bool                      `json:"has_ndb"`
	ApproachTypes     []string                  `json:"approach_types"`
	ByType            map[string][]NavaidDetail `json:"by_type"`
	PrimaryNavigation string                    `json:"primary_navigation"`
	ComplexityScore   int                       `json:"complexity_score"`
}

type NavaidDetail struct {
	Ident        string  `json:"ident"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	FrequencyKhz float64 `json:"frequency_khz,omitempty"`
}

// Capabilities are the derived operational facts.
type Capabilities struct {
	MaxAircraftCategory  string `json:"max_aircraft_category"`
	NightOperations      bool   `json:"night_operations"`
	AllWeatherOperations bool   `json:"all_weather_operations"`
	InternationalCapable bool   `json:"international_capable"`
	CommercialService    bool   `json:"commercial_service"`
}

type DataQuality struct {
	CompletenessScore int       `json:"completeness_score"`
	LastUpdated       time.Time `json:"last_updated"`
	Source            string    `json:"source"`
}
