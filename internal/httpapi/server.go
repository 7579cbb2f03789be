// Package httpapi exposes an observability surface for a long-running
// search: health, Prometheus metrics, and recent diagnostics runs. It is
// not a CLI or experiment-orchestration entry point.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chansched/chansched/internal/diagnostics"
)

// Server holds the dependencies the HTTP surface needs.
type Server struct {
	Diagnostics *diagnostics.DB
}

// Handler builds the chi router: /health, /metrics, /diagnostics/runs.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/diagnostics/runs", s.handleDiagnosticsRuns)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleDiagnosticsRuns(w http.ResponseWriter, r *http.Request) {
	if s.Diagnostics == nil {
		http.Error(w, "diagnostics store not configured", http.StatusServiceUnavailable)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := s.Diagnostics.RecentRuns(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(runs)
}
