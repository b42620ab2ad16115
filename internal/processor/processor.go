package processor

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"flightops/aerodata/internal/analysis"
	"flightops/aerodata/internal/models/dtos"
	"flightops/aerodata/internal/models/entities"
	"flightops/aerodata/internal/normalize"
)

// Identity errors: the only non-negotiable fields. Everything else degrades
// to a lower completeness score instead of failing.
var (
	ErrMissingIdentity    = errors.New("airport record missing ICAO identifier or name")
	ErrMissingCoordinates = errors.New("airport record missing valid coordinates")
)

// Processor converts raw wire records into ProcessedAirport values.
type Processor struct {
	runwayCfg analysis.RunwayConfig
}

// New creates a Processor with the given runway configuration.
func New(runwayCfg analysis.RunwayConfig) *Processor {
	return &Processor{runwayCfg: runwayCfg}
}

// Process normalizes, analyzes, and assembles one airport. The result is
// deterministic for identical input, excluding the LastUpdated timestamp.
func (p *Processor) Process(raw *dtos.AirportRecord, source string) (*entities.ProcessedAirport, error) {
	if raw == nil {
		return nil, ErrMissingIdentity
	}

	icao := normalize.Ident(raw.ICAOCode)
	if icao == "" {
		icao = normalize.Ident(raw.Ident)
	}
	name := strings.TrimSpace(raw.Name)
	if icao == "" || name == "" {
		return nil, ErrMissingIdentity
	}

	lat, err := normalize.Coordinate(raw.LatitudeDeg, -90, 90)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingCoordinates, err)
	}
	lon, err := normalize.Coordinate(raw.LongitudeDeg, -180, 180)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingCoordinates, err)
	}

	airport := &entities.ProcessedAirport{
		ICAO: icao,
		IATA: normalize.Ident(raw.IATACode),
		Name: name,
		Coordinates: entities.Coordinates{
			Latitude:  lat,
			Longitude: lon,
		},
		Location: entities.Location{
			Municipality: strings.TrimSpace(raw.Municipality),
			Region:       strings.TrimSpace(raw.Region),
			Country:      strings.TrimSpace(raw.Country),
			Continent:    strings.TrimSpace(raw.Continent),
		},
	}

	if elev, ok := normalize.FloatChecked(raw.ElevationFt, "elevation_ft", -1500, 20000); ok {
		e := int(elev)
		airport.Coordinates.ElevationFt = &e
	}

	airport.Classification = classify(raw)
	airport.Runways = analysis.AnalyzeRunways(icao, raw.Runways, p.runwayCfg)
	airport.Communications = analysis.OrganizeFrequencies(raw.Frequencies)
	airport.Navigation = analysis.CategorizeNavaids(raw.Navaids)
	airport.Capabilities = analysis.DeriveCapabilities(airport.Runways)

	airport.DataQuality = entities.DataQuality{
		CompletenessScore: completeness(airport),
		LastUpdated:       time.Now().UTC(),
		Source:            source,
	}

	return airport, nil
}

func classify(raw *dtos.AirportRecord) entities.Classification {
	airportType := strings.ToLower(strings.TrimSpace(raw.Type))
	switch {
	case strings.Contains(airportType, "large"):
		airportType = "large"
	case strings.Contains(airportType, "medium"):
		airportType = "medium"
	case strings.Contains(airportType, "heli"):
		airportType = "heliport"
	default:
		airportType = "small"
	}

	scheduled := normalize.Bool(raw.ScheduledService, false)

	size := "private"
	switch {
	case airportType == "large" && scheduled:
		size = "major"
	case airportType == "large" || (airportType == "medium" && scheduled):
		size = "regional"
	case airportType == "medium" || scheduled:
		size = "local"
	}

	return entities.Classification{
		Type:             airportType,
		ScheduledService: scheduled,
		SizeCategory:     size,
	}
}

// completeness allocates fixed points: identity+coordinates 40, descriptive 20,
// operational data 30, auxiliary 10. Recomputed on every write, never inherited.
func completeness(a *entities.ProcessedAirport) int {
	score := 0.0

	// Identity and coordinates: 40. Coordinates already parsed and
	// range-checked, so they always earn their points; 0,0 is a valid
	// position, not an absence.
	if a.ICAO != "" {
		score += 10
	}
	if a.Name != "" {
		score += 10
	}
	score += 20

	// Basic descriptive fields: 20
	if a.Location.Municipality != "" {
		score += 4
	}
	if a.Location.Region != "" {
		score += 4
	}
	if a.Location.Country != "" {
		score += 4
	}
	if a.Classification.Type != "" {
		score += 4
	}
	if a.IATA != "" {
		score += 4
	}

	// Operational data: 30
	if a.Runways.Count > 0 {
		score += 15
	}
	if len(a.Communications.ByType) > 0 {
		score += 10
	}
	if a.Navigation.NavaidCount > 0 {
		score += 5
	}

	// Auxiliary: 10
	if a.Coordinates.ElevationFt != nil {
		score += 4
	}
	if a.Classification.ScheduledService {
		score += 3
	}
	if a.Location.Continent != "" {
		score += 3
	}

	result := int(math.Round(score))
	if result < 0 {
		result = 0
	}
	if result > 100 {
		result = 100
	}
	return result
}
