package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trialfinder/internal/trials/metrics"
)

func newTestSource(t *testing.T, handler http.HandlerFunc, opts ...HTTPOption) *HTTPSource {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	src, err := NewHTTPSource(srv.URL, "", time.Second, opts...)
	require.NoError(t, err)
	return src
}

func TestNewHTTPSourceEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		path     string
		expected string
	}{
		{name: "default path keeps trailing slash", base: "http://analytics:8000", expected: "http://analytics:8000/trials/"},
		{name: "base with trailing slash", base: "http://analytics:8000/", expected: "http://analytics:8000/trials/"},
		{name: "prefixed base", base: "http://gw/api", path: "/trials/", expected: "http://gw/api/trials/"},
		{name: "custom path without slash", base: "http://gw", path: "v2/trials", expected: "http://gw/v2/trials"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewHTTPSource(tt.base, tt.path, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, src.Endpoint())
		})
	}

	_, err := NewHTTPSource("  ", "", 0)
	assert.Error(t, err)
}

func TestHTTPSourceFetch(t *testing.T) {
	var hits atomic.Int32
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/trials/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"nctId":"NCT1","title":"One"},{"nctId":"NCT2","title":"Two"}]`))
	})

	trials, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, trials, 2)
	assert.Equal(t, "One", trials[0].Title)
	assert.Equal(t, int32(1), hits.Load(), "exactly one request per fetch")
}

func TestHTTPSourceFetchFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		category ErrorCategory
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom", category: ErrorOutage},
		{name: "bad gateway", status: http.StatusBadGateway, category: ErrorOutage},
		{name: "missing route", status: http.StatusNotFound, body: `{"detail":"Not found."}`, category: ErrorNotFound},
		{name: "rate limited", status: http.StatusTooManyRequests, category: ErrorRateLimited},
		{name: "gateway timeout", status: http.StatusGatewayTimeout, category: ErrorTimeout},
		{name: "unauthorized", status: http.StatusUnauthorized, category: ErrorInternal},
		{name: "not a list", status: http.StatusOK, body: `{"detail":"oops"}`, category: ErrorBadData},
		{name: "not json", status: http.StatusOK, body: `<html></html>`, category: ErrorBadData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			trials, err := src.Fetch(context.Background())
			require.Error(t, err)
			assert.Nil(t, trials)
			assert.Equal(t, tt.category, GetCategory(err))
		})
	}
}

func TestHTTPSourceTimeout(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := src.Fetch(ctx)
	require.Error(t, err)
	assert.Equal(t, ErrorTimeout, GetCategory(err))
	assert.True(t, IsTransient(err))
}

func TestHTTPSourceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	src, err := NewHTTPSource(base, "", time.Second)
	require.NoError(t, err)

	_, err = src.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, ErrorOutage, GetCategory(err))
}

func TestHTTPSourceCountsSkippedRecords(t *testing.T) {
	m := metrics.NewWith(prometheus.NewRegistry())
	src := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"nctId":"NCT1"}, 42, {"nctId":"NCT1"}]`))
	}, WithMetrics(m))

	trials, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, trials, 1)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.SkippedRecord))
	assert.Equal(t, 1, testutil.CollectAndCount(m.FetchDuration))
}
