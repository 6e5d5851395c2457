package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"trialfinder/internal/platform/metrics"
	"trialfinder/pkg/testutil"
)

type pingRoutes struct{}

func (pingRoutes) Register(r chi.Router) {
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("pong")) })
}

func newTestRouter(checks map[string]HealthCheck) http.Handler {
	reg := prometheus.NewRegistry()
	return NewRouter(Deps{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:  metrics.NewWith(reg),
		Gatherer: reg,
		Checks:   checks,
		Routes:   []Registrar{pingRoutes{}},
	})
}

func TestHealthz(t *testing.T) {
	testutil.Given(t, "healthy dependencies", func(t *testing.T) {
		h := newTestRouter(map[string]HealthCheck{"redis": func(context.Context) error { return nil }})
		rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok","checks":{"redis":"ok"}}`, rr.Body.String())
	})

	testutil.Given(t, "a failing dependency", func(t *testing.T) {
		h := newTestRouter(map[string]HealthCheck{"postgres": func(context.Context) error { return errors.New("connection refused") }})
		rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Contains(t, rr.Body.String(), "connection refused")
	})
}

func TestMetricsExposeRequestLatency(t *testing.T) {
	h := newTestRouter(nil)
	rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/ping"))
	assert.Equal(t, "pong", rr.Body.String())

	rr = testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/metrics"))
	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.True(t, strings.Contains(body, `trialfinder_http_request_duration_seconds_count{method="GET",route="/ping",status="200"} 1`), body)
}
