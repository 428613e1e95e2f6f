package transporthttp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"airmarketbackend/internal/market"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	generator := market.NewGenerator(50, market.WithSeed(7))
	analyzer, err := market.NewAnalyzer(generator, market.MockInsightGenerator{})
	if err != nil {
		t.Fatalf("analyzer: %v", err)
	}
	return NewServer(analyzer).Routes()
}

type snapshotEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		DatasetID      string                  `json:"dataset_id"`
		PopularRoutes  []market.RouteAggregate `json:"popular_routes"`
		PriceTrends    market.PriceTrends      `json:"price_trends"`
		DemandInsights []string                `json:"demand_insights"`
		TotalFlights   int                     `json:"total_flights"`
		LastUpdated    string                  `json:"last_updated"`
	} `json:"data"`
}

func TestDataEndpoint(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var payload snapshotEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Success {
		t.Fatalf("expected success envelope")
	}
	if payload.Data.TotalFlights != 50 {
		t.Errorf("expected 50 flights, got %d", payload.Data.TotalFlights)
	}
	if payload.Data.DatasetID == "" {
		t.Errorf("dataset id missing")
	}
	if len(payload.Data.PopularRoutes) == 0 || len(payload.Data.PopularRoutes) > 10 {
		t.Errorf("unexpected popular routes length %d", len(payload.Data.PopularRoutes))
	}
	if payload.Data.LastUpdated == "" {
		t.Errorf("last_updated missing")
	}
}

func TestChartEndpoints(t *testing.T) {
	handler := newTestServer(t)

	for _, path := range []string{"/api/charts/demand", "/api/charts/prices"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", path, rec.Code)
		}

		var payload struct {
			Success bool               `json:"success"`
			Data    market.ChartSeries `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("%s: decode response: %v", path, err)
		}
		if !payload.Success {
			t.Fatalf("%s: expected success envelope", path)
		}
		if len(payload.Data.Labels) == 0 || len(payload.Data.Labels) != len(payload.Data.Values) {
			t.Errorf("%s: labels/values mismatch (%d/%d)", path, len(payload.Data.Labels), len(payload.Data.Values))
		}
	}
}

func TestFilterEndpointEchoesFilters(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/filter?origin=Sydney&date_from=2026-03-01", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var payload struct {
		Success bool `json:"success"`
		Data    struct {
			TotalFlights   int `json:"total_flights"`
			FiltersApplied struct {
				Origin   string `json:"origin"`
				DateFrom string `json:"date_from"`
			} `json:"filters_applied"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Success {
		t.Fatalf("expected success envelope")
	}
	if payload.Data.FiltersApplied.Origin != "Sydney" || payload.Data.FiltersApplied.DateFrom != "2026-03-01" {
		t.Errorf("filters not echoed: %+v", payload.Data.FiltersApplied)
	}
	if payload.Data.TotalFlights > 50 {
		t.Errorf("filtered count exceeds dataset size: %d", payload.Data.TotalFlights)
	}
}

func TestFilterEndpointRejectsBadDate(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/filter?date_from=next-tuesday", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var payload struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Success || payload.Error == "" {
		t.Fatalf("expected error envelope, got %+v", payload)
	}
}

func TestInsightsEndpoint(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/insights", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var payload struct {
		Success bool            `json:"success"`
		Data    market.Analysis `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Success {
		t.Fatalf("expected success envelope")
	}
	if payload.Data.AIInsights.Summary == "" {
		t.Errorf("insight summary missing")
	}
	if payload.Data.TotalDataPoints != 50 {
		t.Errorf("expected 50 data points, got %d", payload.Data.TotalDataPoints)
	}
	if payload.Data.DataQuality.QualityScore != 100 {
		t.Errorf("generated data should score 100, got %.0f", payload.Data.DataQuality.QualityScore)
	}
}

func TestExportEndpoint(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/export.csv", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("unexpected content type %q", ct)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 51 {
		t.Fatalf("expected header plus 50 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "origin,destination,airline,price,date") {
		t.Errorf("unexpected header %q", lines[0])
	}
}
