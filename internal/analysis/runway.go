package analysis

import (
	"fmt"
	"sort"
	"strings"

	"flightops/aerodata/internal/logging"
	"flightops/aerodata/internal/models/dtos"
	"flightops/aerodata/internal/models/entities"
	"flightops/aerodata/internal/normalize"
)

// maxILSCourseDeviation is the largest shortest-arc difference (degrees)
// between an ILS course and its runway-end heading that is still accepted
// as a valid precision approach. Larger deviations mean the provider paired
// the ILS record to the wrong end.
const maxILSCourseDeviation = 20.0

// AircraftTier defines minimum runway requirements for one aircraft category.
type AircraftTier struct {
	Name          string
	MinLengthFt   int
	MinWidthFt    int
	RequirePaved  bool
	RequireLights bool
	RequireILS    bool
}

// RunwayConfig tunes tier requirements.
type RunwayConfig struct {
	// WideBodyRequiresILS adds an ILS requirement to the wide-body tier.
	WideBodyRequiresILS bool
}

func tiers(cfg RunwayConfig) []AircraftTier {
	return []AircraftTier{
		{Name: "light", MinLengthFt: 2000, MinWidthFt: 50},
		{Name: "business_jet", MinLengthFt: 4500, MinWidthFt: 75, RequirePaved: true},
		{Name: "regional", MinLengthFt: 5500, MinWidthFt: 100, RequirePaved: true, RequireLights: true},
		{Name: "narrow_body", MinLengthFt: 6500, MinWidthFt: 150, RequirePaved: true, RequireLights: true},
		{Name: "wide_body", MinLengthFt: 9000, MinWidthFt: 150, RequirePaved: true, RequireLights: true, RequireILS: cfg.WideBodyRequiresILS},
	}
}

var pavedSurfaces = []string{"ASP", "ASPH", "CON", "CONC", "PEM", "BIT", "TAR", "PAVED"}

// IsPavedSurface reports whether a provider surface code denotes pavement.
func IsPavedSurface(surface string) bool {
	s := strings.ToUpper(strings.TrimSpace(surface))
	for _, p := range pavedSurfaces {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// AnalyzeRunways derives per-runway details and the aggregate summary for one
// airport. Pure function of its input: closed runways are dropped, duplicate
// records describing the same physical runway are collapsed, and ILS records
// whose course disagrees with the runway-end heading are discarded.
func AnalyzeRunways(icao string, records []dtos.RunwayRecord, cfg RunwayConfig) entities.RunwaySummary {
	survivors := dedupeRunways(icao, records)

	summary := entities.RunwaySummary{
		Surfaces: []string{},
		Details:  []entities.RunwayDetail{},
	}

	surfaceSet := map[string]bool{}

	for _, rec := range survivors {
		detail, ok := analyzeRunway(icao, rec, cfg)
		if !ok {
			continue
		}

		summary.Details = append(summary.Details, detail)
		summary.Count++

		if detail.LengthFt > summary.LongestFt {
			summary.LongestFt = detail.LengthFt
		}
		if summary.ShortestFt == 0 || detail.LengthFt < summary.ShortestFt {
			summary.ShortestFt = detail.LengthFt
		}
		if detail.Surface != "" && !surfaceSet[detail.Surface] {
			surfaceSet[detail.Surface] = true
			summary.Surfaces = append(summary.Surfaces, detail.Surface)
		}
		if detail.Lighted {
			summary.Lighted = true
		}
		if detail.PrecisionApproach {
			summary.ILSEquipped = true
		}
	}

	sort.Strings(summary.Surfaces)
	return summary
}

// DeriveCapabilities computes the aggregate operational capability flags from
// an analyzed runway summary.
func DeriveCapabilities(summary entities.RunwaySummary) entities.Capabilities {
	caps := entities.Capabilities{MaxAircraftCategory: "none"}

	anyPaved := false
	for _, d := range summary.Details {
		if d.Paved {
			anyPaved = true
		}
		if d.Lighted {
			caps.NightOperations = true
		}
	}

	caps.AllWeatherOperations = summary.ILSEquipped && anyPaved && summary.Lighted
	caps.CommercialService = anyPaved && summary.LongestFt >= 4000
	caps.InternationalCapable = summary.LongestFt >= 6000 && anyPaved && summary.Lighted

	// Highest tier any single runway satisfies
	order := []string{"light", "business_jet", "regional", "narrow_body", "wide_body"}
	rank := map[string]int{}
	for i, n := range order {
		rank[n] = i + 1
	}
	best := 0
	for _, d := range summary.Details {
		for name, ok := range map[string]bool{
			"light":        d.Suitability.Light,
			"business_jet": d.Suitability.BusinessJet,
			"regional":     d.Suitability.Regional,
			"narrow_body":  d.Suitability.NarrowBody,
			"wide_body":    d.Suitability.WideBody,
		} {
			if ok && rank[name] > best {
				best = rank[name]
				caps.MaxAircraftCategory = name
			}
		}
	}
	return caps
}

// dedupeRunways drops closed runways and collapses records that describe the
// same physical runway: two records whose end-identifier pairs are equal under
// order-independent comparison are one runway.
func dedupeRunways(icao string, records []dtos.RunwayRecord) []dtos.RunwayRecord {
	seen := map[string]bool{}
	out := make([]dtos.RunwayRecord, 0, len(records))

	for _, rec := range records {
		if normalize.Bool(rec.Closed, false) {
			continue
		}

		key := runwayKey(rec)
		if seen[key] {
			logging.Debug("Duplicate runway record dropped",
				"icao", icao,
				"key", key,
			)
			continue
		}
		seen[key] = true
		out = append(out, rec)
	}
	return out
}

// runwayKey builds an order-independent key from the two end identifiers,
// falling back to the record id when both identifiers are absent.
func runwayKey(rec dtos.RunwayRecord) string {
	le := normalize.Ident(rec.LEIdent)
	he := normalize.Ident(rec.HEIdent)
	if le == "" && he == "" {
		if id, ok := normalize.Int(rec.ID); ok {
			return fmt.Sprintf("id:%d", id)
		}
		return "id:unknown"
	}
	if le > he {
		le, he = he, le
	}
	return le + "/" + he
}

func analyzeRunway(icao string, rec dtos.RunwayRecord, cfg RunwayConfig) (entities.RunwayDetail, bool) {
	length, ok := normalize.FloatChecked(rec.LengthFt, "runway_length_ft", 100, 20000)
	if !ok || length <= 0 {
		return entities.RunwayDetail{}, false
	}
	width, _ := normalize.FloatChecked(rec.WidthFt, "runway_width_ft", 20, 1000)

	leHeading, _ := normalize.Heading(rec.LEHeadingDegT)
	heHeading, _ := normalize.Heading(rec.HEHeadingDegT)
	leDispl, _ := normalize.Float(rec.LEDisplacedThresholdFt)
	heDispl, _ := normalize.Float(rec.HEDisplacedThresholdFt)
	if leDispl < 0 {
		leDispl = 0
	}
	if heDispl < 0 {
		heDispl = 0
	}

	detail := entities.RunwayDetail{
		LEIdent:   normalize.Ident(rec.LEIdent),
		HEIdent:   normalize.Ident(rec.HEIdent),
		LengthFt:  int(length),
		WidthFt:   int(width),
		Surface:   strings.ToUpper(strings.TrimSpace(rec.Surface)),
		Paved:     IsPavedSurface(rec.Surface),
		Lighted:   normalize.Bool(rec.Lighted, false),
		LEHeading: leHeading,
		HEHeading: heHeading,
	}

	detail.EffectiveLengthFt = effectiveLength(length, leDispl, heDispl)
	detail.PrecisionApproach = validILS(icao, detail.LEIdent, rec.LEILS, leHeading) ||
		validILS(icao, detail.HEIdent, rec.HEILS, heHeading)

	detail.Suitability = classifySuitability(detail, cfg)
	return detail, true
}

// effectiveLength is the usable stretch after displaced thresholds: the
// shorter of the two landing directions. A physically shorter usable stretch
// must never be hidden by nominal runway length.
func effectiveLength(length, leDispl, heDispl float64) int {
	min := length - leDispl
	if c := length - heDispl; c < min {
		min = c
	}
	if min < 0 {
		min = 0
	}
	return int(min)
}

// validILS accepts an ILS association only when its course agrees with the
// runway-end heading within the shortest-arc tolerance. Mismatches indicate
// provider data pairing an ILS record to the wrong end and are discarded.
func validILS(icao, endIdent string, ils *dtos.ILSRecord, endHeading float64) bool {
	if ils == nil {
		return false
	}
	course, ok := normalize.Heading(ils.Course)
	if !ok {
		// No course to validate against; trust the association
		return true
	}
	if normalize.AngularDiff(course, endHeading) > maxILSCourseDeviation {
		logging.Warn("ILS course does not match runway end heading, discarding",
			"icao", icao,
			"runway_end", endIdent,
			"ils_course", course,
			"end_heading", endHeading,
		)
		return false
	}
	return true
}

func classifySuitability(d entities.RunwayDetail, cfg RunwayConfig) entities.AircraftSuitability {
	var s entities.AircraftSuitability
	for _, tier := range tiers(cfg) {
		ok := d.EffectiveLengthFt >= tier.MinLengthFt &&
			d.WidthFt >= tier.MinWidthFt &&
			(!tier.RequirePaved || d.Paved) &&
			(!tier.RequireLights || d.Lighted) &&
			(!tier.RequireILS || d.PrecisionApproach)

		switch tier.Name {
		case "light":
			s.Light = ok
		case "business_jet":
			s.BusinessJet = ok
		case "regional":
			s.Regional = ok
		case "narrow_body":
			s.NarrowBody = ok
		case "wide_body":
			s.WideBody = ok
		}
	}
	return s
}
