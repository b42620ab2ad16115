package fallback

import (
	"strings"

	"flightops/aerodata/internal/models/dtos"
	"flightops/aerodata/internal/normalize"
)

// Static minimal dataset served when both the upstream provider and the cache
// fail. Major international airports only; everything else is synthesized
// from identifier-prefix heuristics.

var bundled = map[string]dtos.AirportRecord{
	"KJFK": record("KJFK", "JFK", "John F Kennedy International Airport", "New York", "US-NY", "US", "NA", 40.6413, -73.7781, 13),
	"KLAX": record("KLAX", "LAX", "Los Angeles International Airport", "Los Angeles", "US-CA", "US", "NA", 33.9425, -118.4081, 125),
	"KORD": record("KORD", "ORD", "Chicago O'Hare International Airport", "Chicago", "US-IL", "US", "NA", 41.9742, -87.9073, 672),
	"KSFO": record("KSFO", "SFO", "San Francisco International Airport", "San Francisco", "US-CA", "US", "NA", 37.6213, -122.379, 13),
	"EGLL": record("EGLL", "LHR", "London Heathrow Airport", "London", "GB-ENG", "GB", "EU", 51.47, -0.4543, 83),
	"LFPG": record("LFPG", "CDG", "Paris Charles de Gaulle Airport", "Paris", "FR-IDF", "FR", "EU", 49.0097, 2.5479, 392),
	"EDDF": record("EDDF", "FRA", "Frankfurt Airport", "Frankfurt", "DE-HE", "DE", "EU", 50.0379, 8.5622, 364),
	"RJTT": record("RJTT", "HND", "Tokyo Haneda Airport", "Tokyo", "JP-13", "JP", "AS", 35.5494, 139.7798, 35),
	"OMDB": record("OMDB", "DXB", "Dubai International Airport", "Dubai", "AE-DU", "AE", "AS", 25.2532, 55.3657, 62),
	"YSSY": record("YSSY", "SYD", "Sydney Kingsford Smith Airport", "Sydney", "AU-NSW", "AU", "OC", -33.9399, 151.1753, 21),
	"VHHH": record("VHHH", "HKG", "Hong Kong International Airport", "Hong Kong", "HK", "HK", "AS", 22.308, 113.9185, 28),
	"CYYZ": record("CYYZ", "YYZ", "Toronto Pearson International Airport", "Toronto", "CA-ON", "CA", "NA", 43.6777, -79.6248, 569),
}

// prefixRegions maps ICAO identifier prefixes to country/continent heuristics,
// longest prefix first. Purely static: synthesis is side-effect free.
var prefixRegions = []struct {
	prefix    string
	country   string
	continent string
}{
	{"EG", "GB", "EU"},
	{"LF", "FR", "EU"},
	{"ED", "DE", "EU"},
	{"LE", "ES", "EU"},
	{"LI", "IT", "EU"},
	{"RJ", "JP", "AS"},
	{"RK", "KR", "AS"},
	{"VH", "HK", "AS"},
	{"OM", "AE", "AS"},
	{"ZB", "CN", "AS"},
	{"ZS", "CN", "AS"},
	{"K", "US", "NA"},
	{"C", "CA", "NA"},
	{"Y", "AU", "OC"},
	{"Z", "CN", "AS"},
	{"V", "IN", "AS"},
	{"R", "JP", "AS"},
	{"E", "NL", "EU"},
	{"L", "CH", "EU"},
	{"U", "RU", "EU"},
	{"S", "BR", "SA"},
	{"F", "ZA", "AF"},
	{"O", "SA", "AS"},
}

func record(icao, iata, name, city, region, country, continent string, lat, lon, elev float64) dtos.AirportRecord {
	return dtos.AirportRecord{
		Ident:            icao,
		ICAOCode:         icao,
		IATACode:         iata,
		Name:             name,
		Type:             "large_airport",
		LatitudeDeg:      lat,
		LongitudeDeg:     lon,
		ElevationFt:      elev,
		Municipality:     city,
		Region:           region,
		Country:          country,
		Continent:        continent,
		ScheduledService: true,
	}
}

// Lookup returns the bundled record for icao, or a synthesized minimal record
// when the identifier is unknown. The second return reports a bundled hit.
func Lookup(icao string) (*dtos.AirportRecord, bool) {
	id := normalize.Ident(icao)
	if rec, ok := bundled[id]; ok {
		out := rec
		return &out, true
	}
	rec := Synthesize(id)
	return rec, false
}

// Synthesize builds a minimal placeholder record for an unknown identifier
// using prefix heuristics. Pure function of the identifier. Coordinates are
// the null island placeholder, which keeps the record processable while its
// completeness score reflects that nothing real is known.
func Synthesize(icao string) *dtos.AirportRecord {
	id := normalize.Ident(icao)
	country, continent := "", ""
	for _, p := range prefixRegions {
		if strings.HasPrefix(id, p.prefix) {
			country, continent = p.country, p.continent
			break
		}
	}

	return &dtos.AirportRecord{
		Ident:        id,
		ICAOCode:     id,
		Name:         id + " Airport",
		Type:         "small_airport",
		LatitudeDeg:  0.0,
		LongitudeDeg: 0.0,
		Country:      country,
		Continent:    continent,
	}
}

// Search scans the bundled dataset for identifiers or names containing query.
func Search(query string, limit int) []dtos.AirportRecord {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}

	var out []dtos.AirportRecord
	for _, rec := range bundled {
		if strings.Contains(rec.ICAOCode, q) ||
			strings.Contains(strings.ToUpper(rec.IATACode), q) ||
			strings.Contains(strings.ToUpper(rec.Name), q) {
			out = append(out, rec)
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}
