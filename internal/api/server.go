// Package api exposes the read-only availability HTTP API plus the
// operational endpoints (health, readiness, metrics).
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"creneau/internal/model"
)

// MaxRangeDays caps the availability request window.
const MaxRangeDays = 92

const cacheTTL = 5 * time.Minute

// Data is the read surface the API needs.
type Data interface {
	GetOpeningHours(ctx context.Context) (model.OpeningHoursSettings, error)
	GetSlotsForRange(ctx context.Context, from, to time.Time) ([]model.Slot, error)
}

// Cache holds rendered responses. Implemented by state.Store.
type Cache interface {
	CachedAvailability(ctx context.Context, key string) ([]byte, error)
	CacheAvailability(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// Pinger reports backend liveness for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HTTPServer serves the availability API.
type HTTPServer struct {
	server *http.Server
	data   Data
	cache  Cache
	ready  []Pinger
	logger *zerolog.Logger
}

func NewHTTPServer(addr string, data Data, cache Cache, logger *zerolog.Logger, ready ...Pinger) *HTTPServer {
	s := &HTTPServer{
		data:   data,
		cache:  cache,
		ready:  ready,
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/availability", s.handleAvailability)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/readyz", s.handleReadyz)
	mux.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Start runs the server until the listener fails.
func (s *HTTPServer) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("availability API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *HTTPServer) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	for _, p := range s.ready {
		if err := p.Ping(ctx); err != nil {
			http.Error(w, "backend not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseRange(startStr, endStr string) (start, end time.Time, err error) {
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("start and end are required")
	}
	start, err = time.ParseInLocation(model.DateLayout, startStr, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start format; expected YYYY-MM-DD")
	}
	end, err = time.ParseInLocation(model.DateLayout, endStr, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end format; expected YYYY-MM-DD")
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start must be before or equal to end")
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days > MaxRangeDays {
		return time.Time{}, time.Time{}, fmt.Errorf("date range exceeds maximum of %d days", MaxRangeDays)
	}
	return start, end, nil
}
