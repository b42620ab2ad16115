package analysis

import (
	"testing"

	"flightops/aerodata/internal/models/dtos"
)

func TestAnalyzeRunways_DropsClosedAndDuplicates(t *testing.T) {
	records := []dtos.RunwayRecord{
		{
			ID: "1", LEIdent: "09", HEIdent: "27",
			LengthFt: "8000", WidthFt: "150", Surface: "ASP", Lighted: "1",
		},
		{
			// Same physical runway, ends reported in the other order
			ID: "2", LEIdent: "27", HEIdent: "09",
			LengthFt: "8000", WidthFt: "150", Surface: "ASP", Lighted: "1",
		},
		{
			ID: "3", LEIdent: "18", HEIdent: "36",
			LengthFt: "6000", WidthFt: "100", Surface: "ASP", Lighted: "1",
			Closed: "1",
		},
	}

	summary := AnalyzeRunways("KTST", records, RunwayConfig{})

	if summary.Count != 1 {
		t.Fatalf("Expected 1 runway after dedupe and closed filter, got %d", summary.Count)
	}
	if summary.Details[0].LEIdent != "09" {
		t.Errorf("Expected first record kept, got LE ident %s", summary.Details[0].LEIdent)
	}
	if summary.LongestFt != 8000 {
		t.Errorf("Expected longest 8000, got %d", summary.LongestFt)
	}
}

func TestAnalyzeRunways_EffectiveLengthUsesDisplacedThresholds(t *testing.T) {
	records := []dtos.RunwayRecord{
		{
			ID: "1", LEIdent: "09", HEIdent: "27",
			LengthFt: "8000", WidthFt: "150", Surface: "ASP", Lighted: "1",
			LEDisplacedThresholdFt: "500",
			HEDisplacedThresholdFt: "1000",
		},
	}

	summary := AnalyzeRunways("KTST", records, RunwayConfig{})

	if summary.Count != 1 {
		t.Fatalf("Expected 1 runway, got %d", summary.Count)
	}
	// The shortest of the direction combinations: 8000 - 1000
	if got := summary.Details[0].EffectiveLengthFt; got != 7000 {
		t.Errorf("Expected effective length 7000, got %d", got)
	}
}

func TestAnalyzeRunways_ILSCourseMismatchDiscarded(t *testing.T) {
	records := []dtos.RunwayRecord{
		{
			ID: "1", LEIdent: "09", HEIdent: "27",
			LengthFt: "9000", WidthFt: "150", Surface: "ASP", Lighted: "1",
			LEHeadingDegT: "90",
			// Course differs from the end heading by 45 degrees: wrong pairing
			LEILS: &dtos.ILSRecord{FreqMhz: "110.5", Course: "135"},
		},
		{
			ID: "2", LEIdent: "18", HEIdent: "36",
			LengthFt: "9000", WidthFt: "150", Surface: "ASP", Lighted: "1",
			LEHeadingDegT: "180",
			LEILS:         &dtos.ILSRecord{FreqMhz: "109.1", Course: "175"},
		},
	}

	summary := AnalyzeRunways("KTST", records, RunwayConfig{})

	if summary.Details[0].PrecisionApproach {
		t.Error("Expected mismatched ILS to be discarded")
	}
	if !summary.Details[1].PrecisionApproach {
		t.Error("Expected ILS within 20 degrees to be accepted")
	}
	if !summary.ILSEquipped {
		t.Error("Expected summary ILS flag set by the valid ILS")
	}
}

func TestAnalyzeRunways_SuitabilityTiers(t *testing.T) {
	// String-typed wire input: long and paved but only 145 ft wide
	records := []dtos.RunwayRecord{
		{
			ID: "1", LEIdent: "09", HEIdent: "27",
			LengthFt: "10000", WidthFt: "145", Surface: "ASP", Lighted: "1",
		},
	}

	summary := AnalyzeRunways("KTST", records, RunwayConfig{})
	if summary.Count != 1 {
		t.Fatalf("Expected 1 runway, got %d", summary.Count)
	}

	s := summary.Details[0].Suitability
	if !s.Light || !s.BusinessJet || !s.Regional {
		t.Errorf("Expected light/business/regional suitable, got %+v", s)
	}
	if s.NarrowBody {
		t.Error("Expected narrow_body unsuitable: width 145 below the 150 ft minimum")
	}
	if s.WideBody {
		t.Error("Expected wide_body unsuitable: width 145 below the 150 ft minimum")
	}
}

func TestAnalyzeRunways_GrassStripLimits(t *testing.T) {
	records := []dtos.RunwayRecord{
		{
			ID: "1", LEIdent: "09", HEIdent: "27",
			LengthFt: "5000", WidthFt: "100", Surface: "GRS", Lighted: "0",
		},
	}

	summary := AnalyzeRunways("KTST", records, RunwayConfig{})
	s := summary.Details[0].Suitability
	if !s.Light {
		t.Error("Expected light aircraft suitable on a 5000 ft grass strip")
	}
	if s.BusinessJet {
		t.Error("Expected business jet unsuitable on grass")
	}
}

func TestDeriveCapabilities_Flags(t *testing.T) {
	records := []dtos.RunwayRecord{
		{
			ID: "1", LEIdent: "09", HEIdent: "27",
			LengthFt: "10000", WidthFt: "200", Surface: "ASP", Lighted: "1",
			LEHeadingDegT: "90",
			LEILS:         &dtos.ILSRecord{FreqMhz: "110.5", Course: "92"},
		},
	}

	summary := AnalyzeRunways("KBIG", records, RunwayConfig{})
	caps := DeriveCapabilities(summary)

	if !caps.NightOperations {
		t.Error("Expected night operations with a lighted runway")
	}
	if !caps.AllWeatherOperations {
		t.Error("Expected all-weather ops: ILS + paved + lighted")
	}
	if !caps.CommercialService {
		t.Error("Expected commercial service: paved and longest >= 4000")
	}
	if !caps.InternationalCapable {
		t.Error("Expected international: longest >= 6000, paved, lighted")
	}
	if caps.MaxAircraftCategory != "wide_body" {
		t.Errorf("Expected wide_body max category, got %s", caps.MaxAircraftCategory)
	}
}

func TestDeriveCapabilities_Empty(t *testing.T) {
	summary := AnalyzeRunways("KNON", nil, RunwayConfig{})
	caps := DeriveCapabilities(summary)

	if caps.NightOperations || caps.AllWeatherOperations || caps.CommercialService || caps.InternationalCapable {
		t.Errorf("Expected no capabilities for an airport without runways, got %+v", caps)
	}
	if caps.MaxAircraftCategory != "none" {
		t.Errorf("Expected max category none, got %s", caps.MaxAircraftCategory)
	}
}
