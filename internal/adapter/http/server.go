package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/climate-stats-service/internal/analysis"
	"github.com/couchcryptid/climate-stats-service/internal/domain"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 1 << 20

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Analyzer runs the analyses behind the JSON API.
type Analyzer interface {
	Stats(ctx context.Context, q analysis.StatsQuery) (analysis.StatsReport, error)
	BestPeriods(ctx context.Context, q analysis.SweepQuery) (analysis.BestPeriodsReport, error)
	Geocode(ctx context.Context, query string) (domain.GeocodingResult, error)
}

// Server exposes the analysis API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	api        Analyzer
	logger     *slog.Logger
}

// NewServer creates an HTTP server. corsOrigins lists the origins allowed to
// call the API from a browser; "*" allows any.
func NewServer(addr string, ready ReadinessChecker, api Analyzer, corsOrigins []string, logger *slog.Logger) *Server {
	router := mux.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr: addr,
			Handler: handlers.CORS(
				handlers.AllowedOrigins(corsOrigins),
				handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
				handlers.AllowedHeaders([]string{"Content-Type"}),
			)(router),
			ReadTimeout: 10 * time.Second,
			// POWER fetches for a cold location can take most of a minute.
			WriteTimeout: 90 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		api:    api,
		logger: logger,
	}

	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/readyz", handleReady(ready)).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	apiRoutes := router.PathPrefix("/api").Subrouter()
	apiRoutes.HandleFunc("/weather-stats", s.handleStats).Methods(http.MethodPost)
	apiRoutes.HandleFunc("/find-perfect-day", s.handleBestPeriods).Methods(http.MethodPost)
	apiRoutes.HandleFunc("/geocode", s.handleGeocode).Methods(http.MethodGet)

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

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var q analysis.StatsQuery
	if err := decodeBody(r, &q); err != nil {
		s.writeError(w, r, err)
		return
	}
	report, err := s.api.Stats(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleBestPeriods(w http.ResponseWriter, r *http.Request) {
	var q analysis.SweepQuery
	if err := decodeBody(r, &q); err != nil {
		s.writeError(w, r, err)
		return
	}
	report, err := s.api.BestPeriods(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	result, err := s.api.Geocode(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// decodeBody reads one JSON object, rejecting unknown fields and trailing data.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: request body: %w", domain.ErrMalformedInput, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: request body: trailing data after JSON object", domain.ErrMalformedInput)
	}
	return nil
}

// statusFor maps an analysis error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMalformedInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoDataForRange), errors.Is(err, domain.ErrLocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, analysis.ErrGeocodingDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, domain.NewErrorResult(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
