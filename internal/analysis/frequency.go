package analysis

import (
	"strings"

	"flightops/aerodata/internal/models/dtos"
	"flightops/aerodata/internal/models/entities"
	"flightops/aerodata/internal/normalize"
)

// Canonical frequency service types
const (
	FreqTower     = "Tower"
	FreqGround    = "Ground"
	FreqApproach  = "Approach"
	FreqATIS      = "ATIS"
	FreqClearance = "Clearance Delivery"
)

// freqSubstrings maps substring heuristics to canonical types, tried after
// exact matching fails.
var freqSubstrings = []struct {
	substr   string
	freqType string
}{
	{"TWR", FreqTower},
	{"TOWER", FreqTower},
	{"GND", FreqGround},
	{"GROUND", FreqGround},
	{"APP", FreqApproach},
	{"APPROACH", FreqApproach},
	{"ARRIVAL", FreqApproach},
	{"ATIS", FreqATIS},
	{"CLD", FreqClearance},
	{"CLNC", FreqClearance},
	{"DEL", FreqClearance},
	{"CLEARANCE", FreqClearance},
}

var freqExact = map[string]string{
	"TWR":  FreqTower,
	"GND":  FreqGround,
	"APP":  FreqApproach,
	"ATIS": FreqATIS,
	"CLD":  FreqClearance,
	"A/D":  FreqApproach,
}

// NormalizeFrequencyType maps a provider service label to one of the canonical
// types, or "" when nothing matches.
func NormalizeFrequencyType(raw string) string {
	t := strings.ToUpper(strings.TrimSpace(raw))
	if t == "" {
		return ""
	}
	if canonical, ok := freqExact[t]; ok {
		return canonical
	}
	for _, h := range freqSubstrings {
		if strings.Contains(t, h.substr) {
			return h.freqType
		}
	}
	return ""
}

// OrganizeFrequencies groups radio frequencies by canonical service type and
// selects one primary per type. Primary selection is best-effort: the first
// record after grouping wins, trusting provider ordering as a priority proxy.
func OrganizeFrequencies(records []dtos.FrequencyRecord) entities.Communications {
	comms := entities.Communications{
		PrimaryFrequencies: map[string]float64{},
		ByType:             map[string][]entities.FrequencyDetail{},
	}

	for _, rec := range records {
		freqType := NormalizeFrequencyType(rec.Type)
		if freqType == "" {
			freqType = NormalizeFrequencyType(rec.Description)
		}
		if freqType == "" {
			continue
		}

		mhz, ok := normalize.FloatChecked(rec.FrequencyMhz, "frequency_mhz", 108, 137)
		if !ok {
			continue
		}

		detail := entities.FrequencyDetail{
			Type:         freqType,
			Description:  strings.TrimSpace(rec.Description),
			FrequencyMhz: mhz,
		}
		comms.ByType[freqType] = append(comms.ByType[freqType], detail)

		if _, exists := comms.PrimaryFrequencies[freqType]; !exists {
			comms.PrimaryFrequencies[freqType] = mhz
		}
	}

	comms.HasTower = len(comms.ByType[FreqTower]) > 0
	comms.HasGround = len(comms.ByType[FreqGround]) > 0
	comms.HasApproach = len(comms.ByType[FreqApproach]) > 0
	comms.HasATIS = len(comms.ByType[FreqATIS]) > 0

	comms.ComplexityScore = communicationScore(comms)
	return comms
}

// communicationScore is a 0-100 weighted sum of communication capability:
// presence baseline 10, Tower 25, Ground 15, Approach 20, ATIS 10, capped 100.
func communicationScore(c entities.Communications) int {
	if len(c.ByType) == 0 {
		return 0
	}
	score := 10
	if c.HasTower {
		score += 25
	}
	if c.HasGround {
		score += 15
	}
	if c.HasApproach {
		score += 20
	}
	if c.HasATIS {
		score += 10
	}
	// Additional service variety beyond the four core flags
	score += 5 * len(c.ByType[FreqClearance])
	if score > 100 {
		score = 100
	}
	return score
}
