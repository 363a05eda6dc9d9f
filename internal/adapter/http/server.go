// Package http exposes the dashboard API consumed by the rendering
// front end, alongside health, readiness, and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/darkridge/nightsky-etl/internal/domain"
)

// NightsService answers aggregation queries over the loaded dataset.
type NightsService interface {
	Nights(start, end time.Time) []domain.NightSummary
	Range() (minDate, maxDate time.Time)
	CheckReadiness(ctx context.Context) error
}

// Server exposes the dashboard API and operational HTTP endpoints.
type Server struct {
	httpServer *http.Server
	svc        NightsService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the dashboard API
// (/api/nights, /api/range, /api/scale) and /healthz, /readyz,
// /metrics routes.
func NewServer(addr string, svc NightsService, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:    svc,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/nights", s.handleNights)
	mux.HandleFunc("GET /api/range", s.handleRange)
	mux.HandleFunc("GET /api/scale", s.handleScale)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.svc.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// nightRow is the plot-ready wire representation of one night: x is the
// winning reading's timestamp, y its MSAS value, color and label come
// from its sky temperature.
type nightRow struct {
	Date       string    `json:"date"`
	Timestamp  time.Time `json:"timestamp"`
	MSAS       float64   `json:"msas"`
	SkyTemp    float64   `json:"sky_temp"`
	AvgSkyTemp float64   `json:"avg_sky_temp"`
	Label      int       `json:"label"`
}

// handleNights serves GET /api/nights?start=YYYY-MM-DD&end=YYYY-MM-DD.
// Both parameters are optional and default to the dataset bounds. An
// empty result is a valid 200 with an empty array.
func (s *Server) handleNights(w http.ResponseWriter, r *http.Request) {
	minDate, maxDate := s.svc.Range()

	start, err := dateParam(r, "start", minDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	end, err := dateParam(r, "end", maxDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if start.After(end) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("start %s is after end %s",
			start.Format(time.DateOnly), end.Format(time.DateOnly)))
		return
	}

	summaries := s.svc.Nights(start, end)
	rows := make([]nightRow, 0, len(summaries))
	for _, sum := range summaries {
		rows = append(rows, nightRow{
			Date:       sum.Date.Format(time.DateOnly),
			Timestamp:  sum.Reading.Timestamp,
			MSAS:       sum.Reading.MSAS,
			SkyTemp:    sum.Reading.SkyTemp,
			AvgSkyTemp: sum.AvgSkyTemp,
			Label:      sum.Label(),
		})
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleRange(w http.ResponseWriter, _ *http.Request) {
	minDate, maxDate := s.svc.Range()
	writeJSON(w, http.StatusOK, map[string]string{
		"min": minDate.Format(time.DateOnly),
		"max": maxDate.Format(time.DateOnly),
	})
}

func (s *Server) handleScale(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.BrightnessScale)
}

func dateParam(r *http.Request, key string, fallback time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q: want YYYY-MM-DD", key, raw)
	}
	return t, nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
