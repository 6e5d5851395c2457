package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"trialfinder/internal/trials/metrics"
	"trialfinder/internal/trials/models"
	"trialfinder/pkg/platform/sentinel"
)

type countingSource struct {
	calls  int
	trials []models.Trial
	err    error
}

func (s *countingSource) Name() string { return "counting" }

func (s *countingSource) Fetch(context.Context) ([]models.Trial, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.trials, nil
}

type brokenStore struct{}

func (brokenStore) Load(context.Context, string) ([]models.Trial, error) {
	return nil, errors.New("connection refused")
}

func (brokenStore) Save(context.Context, string, []models.Trial) error {
	return errors.New("connection refused")
}

type CachedSourceSuite struct {
	suite.Suite
	ctx     context.Context
	next    *countingSource
	store   *InMemorySnapshotStore
	metrics *metrics.Metrics
	cached  *CachedSource
}

func TestCachedSourceSuite(t *testing.T) {
	suite.Run(t, new(CachedSourceSuite))
}

func (s *CachedSourceSuite) SetupTest() {
	s.ctx = context.Background()
	s.next = &countingSource{trials: []models.Trial{{NCTID: "NCT1"}, {NCTID: "NCT2"}}}
	s.store = NewInMemorySnapshotStore(time.Minute)
	s.metrics = metrics.NewWith(prometheus.NewRegistry())
	s.cached = NewCachedSource(s.next, s.store, nil, s.metrics)
}

func (s *CachedSourceSuite) TestMissThenHit() {
	first, err := s.cached.Fetch(s.ctx)
	s.Require().NoError(err)
	second, err := s.cached.Fetch(s.ctx)
	s.Require().NoError(err)

	s.Equal(1, s.next.calls)
	s.Equal(first, second)
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.CacheResults.WithLabelValues("miss")))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.CacheResults.WithLabelValues("hit")))
	s.Equal("counting", s.cached.Name())
}

func (s *CachedSourceSuite) TestExpiredSnapshotRefetches() {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.store.now = func() time.Time { return now }

	_, err := s.cached.Fetch(s.ctx)
	s.Require().NoError(err)

	now = now.Add(2 * time.Minute)
	_, err = s.cached.Fetch(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, s.next.calls)
}

func (s *CachedSourceSuite) TestUpstreamFailureIsNotCached() {
	s.next.err = NewFetchError(ErrorOutage, "counting", "down", nil)

	_, err := s.cached.Fetch(s.ctx)
	s.Require().Error(err)
	s.Equal(ErrorOutage, GetCategory(err))

	_, err = s.store.Load(s.ctx, s.cached.key())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *CachedSourceSuite) TestBrokenStoreFallsThrough() {
	cached := NewCachedSource(s.next, brokenStore{}, nil, nil)

	trials, err := cached.Fetch(s.ctx)
	s.Require().NoError(err)
	s.Len(trials, 2)
	s.Equal(1, s.next.calls)
}

func TestInMemorySnapshotStoreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewInMemorySnapshotStore(time.Minute)
	in := []models.Trial{{NCTID: "A"}}
	require.NoError(t, store.Save(ctx, "k", in))

	in[0].NCTID = "mutated"
	out, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "A", out[0].NCTID)

	out[0].NCTID = "mutated again"
	again, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "A", again[0].NCTID)

	_, err = store.Load(ctx, "missing")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
