package rest

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	json "github.com/goccy/go-json"
)

// ReadinessCheck reports whether one dependency is usable.
type ReadinessCheck func(ctx context.Context) error

// HealthHandler serves liveness, readiness and metrics over HTTP.
type HealthHandler struct {
	service string
	checks  map[string]ReadinessCheck
	metrics http.Handler
	timeout time.Duration
	logger  *slog.Logger
}

// NewHealthHandler creates a health check HTTP handler. metrics may be nil.
func NewHealthHandler(service string, checks map[string]ReadinessCheck, metrics http.Handler, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		checks:  checks,
		metrics: metrics,
		timeout: 2 * time.Second,
		logger:  logger,
	}
}

// RegisterRoutes attaches health-check routes to the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.liveness)
	mux.HandleFunc("GET /readyz", h.readiness)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics)
	}
}

func (h *HealthHandler) liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": h.service,
	})
}

func (h *HealthHandler) readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]string, len(names))
	code, overall := http.StatusOK, "ready"
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.logger.WarnContext(ctx, "readiness check failed", "check", name, "error", err)
			results[name] = "unavailable"
			code, overall = http.StatusServiceUnavailable, "not_ready"
			continue
		}
		results[name] = "ok"
	}

	writeJSON(w, code, map[string]any{
		"status":  overall,
		"service": h.service,
		"checks":  results,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}
