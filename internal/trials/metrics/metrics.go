package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for trial views and their data source.
// All methods are nil-safe so components can run without metrics in tests.
type Metrics struct {
	ViewsOpened   prometheus.Counter
	ViewsActive   prometheus.Gauge
	ViewLoads     *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	CacheResults  *prometheus.CounterVec
	SkippedRecord prometheus.Counter
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on reg. Tests pass a fresh registry so
// repeated construction does not panic on duplicate registration.
func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ViewsOpened: f.NewCounter(prometheus.CounterOpts{
			Name: "trialfinder_views_opened_total",
			Help: "Total number of trial views opened",
		}),
		ViewsActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "trialfinder_views_active",
			Help: "Number of trial views currently held in memory",
		}),
		ViewLoads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trialfinder_view_loads_total",
			Help: "View dataset loads by outcome",
		}, []string{"outcome"}), // outcome: "loaded", "failed", "cancelled"
		FetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trialfinder_source_fetch_duration_seconds",
			Help:    "Duration of full trial dataset fetches by source",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		CacheResults: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trialfinder_snapshot_cache_total",
			Help: "Snapshot cache lookups by result",
		}, []string{"result"}), // result: "hit", "miss"
		SkippedRecord: f.NewCounter(prometheus.CounterOpts{
			Name: "trialfinder_source_skipped_records_total",
			Help: "Upstream records dropped as malformed or duplicate",
		}),
	}
}

// IncrementViewsOpened records a newly opened view.
func (m *Metrics) IncrementViewsOpened() {
	if m != nil {
		m.ViewsOpened.Inc()
		m.ViewsActive.Inc()
	}
}

// DecrementViewsActive records a closed or expired view.
func (m *Metrics) DecrementViewsActive() {
	if m != nil {
		m.ViewsActive.Dec()
	}
}

// IncrementLoad records a finished dataset load.
func (m *Metrics) IncrementLoad(outcome string) {
	if m != nil {
		m.ViewLoads.WithLabelValues(outcome).Inc()
	}
}

// ObserveFetch records the duration of a source fetch.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveFetch(source string, start time.Time) {
	if m != nil {
		m.FetchDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	}
}

// RecordCacheHit records a snapshot cache hit.
func (m *Metrics) RecordCacheHit() {
	if m != nil {
		m.CacheResults.WithLabelValues("hit").Inc()
	}
}

// RecordCacheMiss records a snapshot cache miss.
func (m *Metrics) RecordCacheMiss() {
	if m != nil {
		m.CacheResults.WithLabelValues("miss").Inc()
	}
}

// AddSkippedRecords records upstream records that were dropped.
func (m *Metrics) AddSkippedRecords(n int) {
	if m != nil && n > 0 {
		m.SkippedRecord.Add(float64(n))
	}
}
