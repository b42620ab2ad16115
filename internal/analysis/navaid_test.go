package analysis

import (
	"testing"

	"flightops/aerodata/internal/models/dtos"
)

func TestCategorizeNavaids_ExcludesIncompleteRecords(t *testing.T) {
	records := []dtos.NavaidRecord{
		{Ident: "JFK", Name: "Kennedy VOR", Type: "VOR-DME", FrequencyKhz: "115900"},
		{Ident: "", Name: "Nameless", Type: "NDB"},
		{Ident: "XX", Name: "", Type: "NDB"},
		{Ident: "YY", Name: "No type"},
	}

	nav := CategorizeNavaids(records)

	if nav.NavaidCount != 1 {
		t.Fatalf("Expected 1 navaid, got %d", nav.NavaidCount)
	}
	if !nav.HasVOR {
		t.Error("Expected VOR flag")
	}
}

func TestCategorizeNavaids_ApproachTypes(t *testing.T) {
	records := []dtos.NavaidRecord{
		{Ident: "IJFK", Name: "Runway ILS", Type: "ILS", FrequencyKhz: "110500"},
		{Ident: "JFK", Name: "Kennedy VOR", Type: "VOR", FrequencyKhz: "115900"},
		{Ident: "DPK", Name: "Deer Park DME", Type: "DME", FrequencyKhz: "117700"},
	}

	nav := CategorizeNavaids(records)

	want := map[string]bool{"ILS": true, "VOR": true, "VOR/DME": true}
	if len(nav.ApproachTypes) != len(want) {
		t.Fatalf("Expected %d approach types, got %v", len(want), nav.ApproachTypes)
	}
	for _, a := range nav.ApproachTypes {
		if !want[a] {
			t.Errorf("Unexpected approach type %s", a)
		}
	}

	if !HasPrecisionApproach(nav) {
		t.Error("Expected precision approach with ILS present")
	}
	if !HasAllWeatherNavigation(nav) {
		t.Error("Expected all-weather navigation with precision approach")
	}
}

func TestCategorizeNavaids_PrimaryNavigationPriority(t *testing.T) {
	cases := []struct {
		name    string
		records []dtos.NavaidRecord
		want    string
	}{
		{
			"ils wins",
			[]dtos.NavaidRecord{
				{Ident: "I", Name: "ILS", Type: "ILS"},
				{Ident: "V", Name: "VOR", Type: "VOR"},
			},
			"ILS",
		},
		{
			"vor over ndb",
			[]dtos.NavaidRecord{
				{Ident: "V", Name: "VOR", Type: "VOR"},
				{Ident: "N", Name: "NDB", Type: "NDB"},
			},
			"VOR",
		},
		{
			"ndb only",
			[]dtos.NavaidRecord{{Ident: "N", Name: "NDB", Type: "NDB"}},
			"NDB",
		},
		{
			"nothing",
			nil,
			"Visual",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			nav := CategorizeNavaids(tc.records)
			if nav.PrimaryNavigation != tc.want {
				t.Errorf("Expected primary %s, got %s", tc.want, nav.PrimaryNavigation)
			}
		})
	}
}

func TestNormalizeNavaidType(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"VOR-DME", NavVOR},
		{"VORTAC", NavVOR},
		{"ILS/LOC", NavILS},
		{"LOC", NavILS},
		{"ndb", NavNDB},
		{"DME", NavDME},
		{"GPS", ""},
	}
	for _, tc := range cases {
		if got := NormalizeNavaidType(tc.in); got != tc.want {
			t.Errorf("NormalizeNavaidType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
