package rest_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/presentation/rest"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func serve(t *testing.T, h *rest.HealthHandler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func ok(context.Context) error { return nil }

func TestHealthHandler(t *testing.T) {
	t.Run("liveness", func(t *testing.T) {
		rec, body := serve(t, rest.NewHealthHandler("underwriting-service", nil, nil, discardLogger), "/healthz")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "underwriting-service", body["service"])
	})

	t.Run("ready when all checks pass", func(t *testing.T) {
		h := rest.NewHealthHandler("svc", map[string]rest.ReadinessCheck{"postgres": ok, "redis": ok}, nil, discardLogger)
		rec, body := serve(t, h, "/readyz")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ready", body["status"])
	})

	t.Run("not ready when a check fails", func(t *testing.T) {
		h := rest.NewHealthHandler("svc", map[string]rest.ReadinessCheck{
			"postgres": ok,
			"redis":    func(context.Context) error { return errors.New("dial tcp: refused") },
		}, nil, discardLogger)

		rec, body := serve(t, h, "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "not_ready", body["status"])
		checks := body["checks"].(map[string]any)
		assert.Equal(t, "ok", checks["postgres"])
		assert.Equal(t, "unavailable", checks["redis"])
	})

	t.Run("metrics handler is mounted", func(t *testing.T) {
		metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("underwriting_classifications_total 1\n"))
		})
		rec, _ := serve(t, rest.NewHealthHandler("svc", nil, metrics, discardLogger), "/metrics")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "underwriting_classifications_total")
	})
}
