package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flightops/aerodata/internal/models/dtos"
)

func testClient(url string) *Client {
	c := New(url, "test-token")
	c.BaseDelay = time.Millisecond
	return c
}

func TestGetByIdent_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/airport/KJFK" {
			t.Errorf("Expected path /airport/KJFK, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("apiToken") != "test-token" {
			t.Error("Expected apiToken query parameter")
		}
		json.NewEncoder(w).Encode(dtos.AirportRecord{
			ICAOCode: "KJFK", Name: "Kennedy", LatitudeDeg: "40.6", LongitudeDeg: "-73.7",
		})
	}))
	defer server.Close()

	rec, source, err := testClient(server.URL).GetByIdent(context.Background(), "kjfk")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if source != "api" {
		t.Errorf("Expected source api, got %s", source)
	}
	if rec.ICAOCode != "KJFK" {
		t.Errorf("Expected KJFK, got %s", rec.ICAOCode)
	}
}

func TestGetByIdent_InvalidIdentifierNeverFallsBack(t *testing.T) {
	c := testClient("http://invalid.localhost")

	_, _, err := c.GetByIdent(context.Background(), "not a code!")
	if err == nil {
		t.Fatal("Expected error for malformed identifier")
	}
	if !IsInvalidRequest(err) {
		t.Errorf("Expected invalid_request, got %v", err)
	}
}

func TestGetByIdent_NotFoundUsesFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	rec, source, err := testClient(server.URL).GetByIdent(context.Background(), "EGLL")
	if err != nil {
		t.Fatalf("Expected fallback instead of error, got %v", err)
	}
	if source != "fallback" {
		t.Errorf("Expected source fallback, got %s", source)
	}
	if rec.IATACode != "LHR" {
		t.Errorf("Expected bundled Heathrow record, got %+v", rec)
	}
}

func TestGetByIdent_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(dtos.AirportRecord{ICAOCode: "KSFO", Name: "San Francisco"})
	}))
	defer server.Close()

	rec, source, err := testClient(server.URL).GetByIdent(context.Background(), "KSFO")
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
	if source != "api" || rec.ICAOCode != "KSFO" {
		t.Errorf("Unexpected result %s %+v", source, rec)
	}
}

func TestGetByIdent_ExhaustedRetriesFallBack(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	rec, source, err := testClient(server.URL).GetByIdent(context.Background(), "KLAX")
	if err != nil {
		t.Fatalf("Expected fallback, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected exactly 3 attempts, got %d", attempts)
	}
	if source != "fallback" || rec.IATACode != "LAX" {
		t.Errorf("Expected bundled KLAX record, got %s %+v", source, rec)
	}
}

func TestGetByIdent_RateLimitedPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "42")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, _, err := testClient(server.URL).GetByIdent(context.Background(), "KJFK")
	if !IsRateLimited(err) {
		t.Fatalf("Expected rate_limited error, got %v", err)
	}
	cerr := asClientError(err)
	if cerr.RetryAfter != 42*time.Second {
		t.Errorf("Expected retry-after 42s, got %v", cerr.RetryAfter)
	}
}

func TestSearch_MalformedQueryIsHardError(t *testing.T) {
	c := testClient("http://invalid.localhost")
	if _, err := c.Search(context.Background(), " ", dtos.SearchOptions{}); err == nil {
		t.Error("Expected error for blank query")
	}
}

func TestSearch_OversizedLimitIsClamped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "50" {
			t.Errorf("Expected limit clamped to 50, got %s", got)
		}
		json.NewEncoder(w).Encode(dtos.SearchResponse{Airports: []dtos.AirportRecord{}})
	}))
	defer server.Close()

	if _, err := testClient(server.URL).Search(context.Background(), "london", dtos.SearchOptions{Limit: 200}); err != nil {
		t.Fatal(err)
	}
}

func TestSearch_FailureReturnsEmptyNotError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	results, err := testClient(server.URL).Search(context.Background(), "zzzznothing", dtos.SearchOptions{})
	if err != nil {
		t.Fatalf("Search must absorb upstream failure, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected empty results, got %d", len(results))
	}
}

func TestSearch_FailureDegradesToBundledDataset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	results, err := testClient(server.URL).Search(context.Background(), "heathrow", dtos.SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ICAOCode != "EGLL" {
		t.Errorf("Expected bundled Heathrow hit, got %+v", results)
	}
}

func TestGetBatch_PartialFailureAccounting(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Resolve two of the three requested identifiers
		json.NewEncoder(w).Encode(dtos.BatchResponse{Airports: []dtos.AirportRecord{
			{ICAOCode: "KAAA", Name: "Alpha"},
			{ICAOCode: "KBBB", Name: "Bravo"},
		}})
	}))
	defer server.Close()

	// ZQQQ is neither resolvable upstream nor bundled
	result := testClient(server.URL).GetBatch(context.Background(), []string{"KAAA", "KBBB", "ZQQQ"})

	if len(result.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(result.Records))
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Expected exactly 1 error, got %d", len(result.Errors))
	}
	if _, ok := result.Errors["ZQQQ"]; !ok {
		t.Errorf("Expected ZQQQ in errors, got %v", result.Errors)
	}
}

func TestGetBatch_UnresolvedRetriedAgainstBundledDataset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(dtos.BatchResponse{})
	}))
	defer server.Close()

	result := testClient(server.URL).GetBatch(context.Background(), []string{"EGLL"})

	if len(result.Errors) != 0 {
		t.Fatalf("Expected bundled rescue, got errors %v", result.Errors)
	}
	if result.Sources["EGLL"] != "fallback" {
		t.Errorf("Expected fallback source, got %s", result.Sources["EGLL"])
	}
}

func TestGetBatch_InvalidIdentifierReportedPerItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(dtos.BatchResponse{Airports: []dtos.AirportRecord{
			{ICAOCode: "KAAA", Name: "Alpha"},
		}})
	}))
	defer server.Close()

	result := testClient(server.URL).GetBatch(context.Background(), []string{"KAAA", "bad id!"})

	if len(result.Records) != 1 {
		t.Errorf("Expected sibling to survive, got %d records", len(result.Records))
	}
	cerr, ok := result.Errors["bad id!"]
	if !ok || !IsInvalidRequest(cerr) {
		t.Errorf("Expected invalid_request for the malformed identifier, got %v", result.Errors)
	}
}
