package analysis

import (
	"testing"

	"flightops/aerodata/internal/models/dtos"
)

func TestNormalizeFrequencyType(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"TWR", FreqTower},
		{"Kennedy Tower", FreqTower},
		{"GND", FreqGround},
		{"ground control", FreqGround},
		{"APP", FreqApproach},
		{"New York Approach", FreqApproach},
		{"ATIS", FreqATIS},
		{"CLNC DEL", FreqClearance},
		{"UNICOM", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := NormalizeFrequencyType(tc.in); got != tc.want {
			t.Errorf("NormalizeFrequencyType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestOrganizeFrequencies_GroupingAndPrimary(t *testing.T) {
	records := []dtos.FrequencyRecord{
		{ID: "1", Type: "TWR", Description: "Tower", FrequencyMhz: "118.7"},
		{ID: "2", Type: "TWR", Description: "Tower secondary", FrequencyMhz: "119.1"},
		{ID: "3", Type: "GND", Description: "Ground", FrequencyMhz: 121.9},
		{ID: "4", Type: "ATIS", Description: "ATIS", FrequencyMhz: "128.725"},
	}

	comms := OrganizeFrequencies(records)

	if !comms.HasTower || !comms.HasGround || !comms.HasATIS {
		t.Errorf("Expected tower/ground/ATIS flags, got %+v", comms)
	}
	if comms.HasApproach {
		t.Error("Did not expect approach flag")
	}
	if len(comms.ByType[FreqTower]) != 2 {
		t.Errorf("Expected 2 tower frequencies, got %d", len(comms.ByType[FreqTower]))
	}
	// First record per type wins primary selection
	if comms.PrimaryFrequencies[FreqTower] != 118.7 {
		t.Errorf("Expected primary tower 118.7, got %v", comms.PrimaryFrequencies[FreqTower])
	}
}

func TestOrganizeFrequencies_ComplexityScore(t *testing.T) {
	records := []dtos.FrequencyRecord{
		{Type: "TWR", FrequencyMhz: "118.7"},
		{Type: "GND", FrequencyMhz: "121.9"},
		{Type: "APP", FrequencyMhz: "124.5"},
		{Type: "ATIS", FrequencyMhz: "128.725"},
	}

	comms := OrganizeFrequencies(records)

	// base 10 + tower 25 + ground 15 + approach 20 + ATIS 10
	if comms.ComplexityScore != 80 {
		t.Errorf("Expected complexity 80, got %d", comms.ComplexityScore)
	}

	empty := OrganizeFrequencies(nil)
	if empty.ComplexityScore != 0 {
		t.Errorf("Expected 0 complexity without frequencies, got %d", empty.ComplexityScore)
	}
}

func TestOrganizeFrequencies_SkipsUnparseable(t *testing.T) {
	records := []dtos.FrequencyRecord{
		{Type: "TWR", FrequencyMhz: "not-a-number"},
		{Type: "TWR", FrequencyMhz: "118.7"},
	}

	comms := OrganizeFrequencies(records)
	if len(comms.ByType[FreqTower]) != 1 {
		t.Fatalf("Expected 1 tower frequency, got %d", len(comms.ByType[FreqTower]))
	}
	if comms.PrimaryFrequencies[FreqTower] != 118.7 {
		t.Errorf("Expected primary 118.7, got %v", comms.PrimaryFrequencies[FreqTower])
	}
}
