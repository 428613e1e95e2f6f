package transporthttp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"airmarketbackend/internal/market"
)

// Server exposes the market analyzer over HTTP. Handlers hold no state of
// their own; everything is recomputed per request by the analyzer.
type Server struct {
	analyzer *market.Analyzer
}

// NewServer builds a Server around an explicitly constructed analyzer.
func NewServer(analyzer *market.Analyzer) *Server {
	return &Server{analyzer: analyzer}
}

// Routes wires the full API surface.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/data", s.handleData)
		r.Get("/charts/demand", s.handleDemandChart)
		r.Get("/charts/prices", s.handlePriceChart)
		r.Get("/filter", s.handleFilter)
		r.Get("/insights", s.handleInsights)
		r.Get("/export.csv", s.handleExport)
	})
	r.Get("/swagger", serveSwaggerUI)
	r.Get("/swagger/openapi.yaml", serveSwaggerYAML)
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	snapshot := s.analyzer.Snapshot(market.Filter{})
	writeData(w, http.StatusOK, snapshot)
}

func (s *Server) handleDemandChart(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.analyzer.DemandChart())
}

func (s *Server) handlePriceChart(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.analyzer.PriceChart())
}

type filtersApplied struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	DateFrom    string `json:"date_from"`
	DateTo      string `json:"date_to"`
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snapshot := s.analyzer.Snapshot(filter)
	values := r.URL.Query()

	response := struct {
		market.Snapshot
		FiltersApplied filtersApplied `json:"filters_applied"`
	}{
		Snapshot: snapshot,
		FiltersApplied: filtersApplied{
			Origin:      values.Get("origin"),
			Destination: values.Get("destination"),
			DateFrom:    values.Get("date_from"),
			DateTo:      values.Get("date_to"),
		},
	}
	writeData(w, http.StatusOK, response)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.analyzer.Analysis(r.Context()))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := market.WriteCSV(&buf, s.analyzer.Records()); err != nil {
		log.Error().Err(err).Msg("csv export failed")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="flight_data.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func parseFilter(r *http.Request) (market.Filter, error) {
	values := r.URL.Query()
	filter := market.Filter{
		Origin:      values.Get("origin"),
		Destination: values.Get("destination"),
	}

	if v := values.Get("date_from"); v != "" {
		ts, err := time.Parse("2006-01-02", v)
		if err != nil {
			return market.Filter{}, fmt.Errorf("date_from must be YYYY-MM-DD")
		}
		filter.DateFrom = ts
	}
	if v := values.Get("date_to"); v != "" {
		ts, err := time.Parse("2006-01-02", v)
		if err != nil {
			return market.Filter{}, fmt.Errorf("date_to must be YYYY-MM-DD")
		}
		filter.DateTo = ts
	}

	return filter, nil
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": message})
}
