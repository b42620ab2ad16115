package analysis

import (
	"strings"

	"flightops/aerodata/internal/models/dtos"
	"flightops/aerodata/internal/models/entities"
	"flightops/aerodata/internal/normalize"
)

// Canonical navaid types
const (
	NavVOR = "VOR"
	NavNDB = "NDB"
	NavILS = "ILS"
	NavDME = "DME"
)

// approachDefinitions lists each known approach type with the navaid types it
// requires. An approach is available when every required type is present.
var approachDefinitions = []struct {
	name     string
	requires []string
}{
	{"ILS", []string{NavILS}},
	{"VOR", []string{NavVOR}},
	{"VOR/DME", []string{NavVOR, NavDME}},
	{"NDB", []string{NavNDB}},
}

// NormalizeNavaidType maps a provider navaid type to a canonical type, or ""
// when unrecognized.
func NormalizeNavaidType(raw string) string {
	t := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case t == "":
		return ""
	case strings.Contains(t, "ILS"), strings.Contains(t, "LOC"):
		return NavILS
	case strings.Contains(t, "VOR"), strings.Contains(t, "TACAN"), strings.Contains(t, "VORTAC"):
		return NavVOR
	case strings.Contains(t, "NDB"):
		return NavNDB
	case strings.Contains(t, "DME"):
		return NavDME
	default:
		return ""
	}
}

// CategorizeNavaids groups navigation aids by type and derives approach
// availability. Navaids missing identifier, name, or type are excluded.
func CategorizeNavaids(records []dtos.NavaidRecord) entities.Navigation {
	nav := entities.Navigation{
		ApproachTypes: []string{},
		ByType:        map[string][]entities.NavaidDetail{},
	}

	for _, rec := range records {
		ident := normalize.Ident(rec.Ident)
		name := strings.TrimSpace(rec.Name)
		navType := NormalizeNavaidType(rec.Type)
		if ident == "" || name == "" || navType == "" {
			continue
		}

		khz, _ := normalize.Float(rec.FrequencyKhz)
		detail := entities.NavaidDetail{
			Ident:        ident,
			Name:         name,
			Type:         navType,
			FrequencyKhz: khz,
		}
		nav.ByType[navType] = append(nav.ByType[navType], detail)
		nav.NavaidCount++
	}

	nav.HasILS = len(nav.ByType[NavILS]) > 0
	nav.HasVOR = len(nav.ByType[NavVOR]) > 0
	nav.HasNDB = len(nav.ByType[NavNDB]) > 0

	for _, def := range approachDefinitions {
		available := true
		for _, req := range def.requires {
			if len(nav.ByType[req]) == 0 {
				available = false
				break
			}
		}
		if available {
			nav.ApproachTypes = append(nav.ApproachTypes, def.name)
		}
	}

	nav.PrimaryNavigation = primaryNavigation(nav)
	nav.ComplexityScore = navigationScore(nav)
	return nav
}

// primaryNavigation labels the best available guidance: ILS > VOR > NDB > Visual.
func primaryNavigation(nav entities.Navigation) string {
	switch {
	case nav.HasILS:
		return NavILS
	case nav.HasVOR:
		return NavVOR
	case nav.HasNDB:
		return NavNDB
	default:
		return "Visual"
	}
}

// navigationScore is a 0-100 heuristic for navigational capability.
func navigationScore(nav entities.Navigation) int {
	if nav.NavaidCount == 0 {
		return 0
	}
	score := 10
	if nav.HasILS {
		score += 40
	}
	if nav.HasVOR {
		score += 25
	}
	if nav.HasNDB {
		score += 10
	}
	if len(nav.ByType[NavDME]) > 0 {
		score += 10
	}
	score += 5 * len(nav.ApproachTypes)
	if score > 100 {
		score = 100
	}
	return score
}

// HasPrecisionApproach reports ILS-grade lateral and vertical guidance.
func HasPrecisionApproach(nav entities.Navigation) bool {
	return nav.HasILS
}

// HasAllWeatherNavigation requires precision approach capability.
func HasAllWeatherNavigation(nav entities.Navigation) bool {
	return HasPrecisionApproach(nav)
}
