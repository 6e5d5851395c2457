// Package service keeps the open trial views of all consumers and runs their
// dataset loads in the background.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"trialfinder/internal/trials/embed"
	"trialfinder/internal/trials/metrics"
	"trialfinder/internal/trials/models"
	"trialfinder/internal/trials/paginate"
	"trialfinder/internal/trials/source"
	"trialfinder/internal/trials/view"
	dErrors "trialfinder/pkg/domain-errors"
	"trialfinder/pkg/platform/sentinel"
)

const (
	defaultViewTTL      = 30 * time.Minute
	defaultFetchTimeout = 30 * time.Second
)

type entry struct {
	view     *view.View
	lastSeen atomic.Int64
	// cancel aborts the view's in-flight load when the view is removed.
	cancel context.CancelFunc
}

func (e *entry) touch(now time.Time) {
	e.lastSeen.Store(now.UnixNano())
}

// Service owns the registry of open views.
type Service struct {
	src          source.Source
	pageSize     int
	viewTTL      time.Duration
	fetchTimeout time.Duration
	logger       *slog.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
	embedder     *embed.Signer

	mu    sync.RWMutex
	views map[uuid.UUID]*entry

	// Loads outlive the request that opened the view; they end with the service.
	loadCtx    context.Context
	cancelLoad context.CancelFunc
	loads      sync.WaitGroup
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithPageSize sets rows per page for new views.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithViewTTL sets how long an untouched view is kept.
func WithViewTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.viewTTL = d
		}
	}
}

// WithFetchTimeout bounds each dataset load.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithClock overrides the time source used for view expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithEmbedSigner enables dashboard embedding tokens.
func WithEmbedSigner(signer *embed.Signer) Option {
	return func(s *Service) {
		s.embedder = signer
	}
}

// New constructs a Service reading from src.
func New(src source.Source, opts ...Option) *Service {
	s := &Service{
		src:          src,
		pageSize:     paginate.DefaultPageSize,
		viewTTL:      defaultViewTTL,
		fetchTimeout: defaultFetchTimeout,
		logger:       slog.Default(),
		now:          time.Now,
		views:        make(map[uuid.UUID]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.loadCtx, s.cancelLoad = context.WithCancel(context.Background())
	return s
}

// OpenResult identifies a newly opened view.
type OpenResult struct {
	ViewID   uuid.UUID     `json:"view_id"`
	Snapshot view.Snapshot `json:"snapshot"`
}

// Open creates a view and starts loading its dataset. With wait set, Open
// returns after the load has finished; a failed load is reported in the
// snapshot, not as an error. If ctx ends first the view is still returned in
// its loading state so the caller can poll or close it.
func (s *Service) Open(ctx context.Context, wait bool) (*OpenResult, error) {
	id := uuid.New()
	e := &entry{view: view.New(s.pageSize)}
	e.touch(s.now())

	s.mu.Lock()
	if s.loadCtx.Err() != nil {
		s.mu.Unlock()
		return nil, dErrors.Wrap(sentinel.ErrUnavailable, dErrors.CodeUnavailable, "service is shutting down")
	}
	loadCtx, cancel := context.WithCancel(s.loadCtx)
	e.cancel = cancel
	s.views[id] = e
	s.loads.Add(1)
	s.mu.Unlock()
	s.metrics.IncrementViewsOpened()

	go func() {
		defer cancel()
		s.load(loadCtx, id, e.view)
	}()

	if wait {
		if err := e.view.Wait(ctx); err != nil {
			s.logger.InfoContext(ctx, "stopped waiting for view load", "view_id", id, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "view opened", "view_id", id, "wait", wait)
	return &OpenResult{ViewID: id, Snapshot: e.view.Snapshot()}, nil
}

func (s *Service) load(parent context.Context, id uuid.UUID, v *view.View) {
	defer s.loads.Done()
	ctx, cancel := context.WithTimeout(parent, s.fetchTimeout)
	defer cancel()

	start := time.Now()
	if err := v.Load(ctx, s.src); err != nil {
		if errors.Is(parent.Err(), context.Canceled) && s.loadCtx.Err() == nil {
			s.metrics.IncrementLoad("cancelled")
			s.logger.InfoContext(ctx, "view load cancelled", "view_id", id)
			return
		}
		s.metrics.IncrementLoad("failed")
		s.logger.WarnContext(ctx, "view load failed",
			"view_id", id,
			"source", s.src.Name(),
			"category", source.GetCategory(err),
			"error", err,
		)
		return
	}
	s.metrics.IncrementLoad("loaded")
	snap := v.Snapshot()
	s.logger.InfoContext(ctx, "view loaded",
		"view_id", id,
		"source", s.src.Name(),
		"trials", snap.DatasetTotal,
		"duration", time.Since(start),
	)
}

// Get returns the view's current snapshot.
func (s *Service) Get(_ context.Context, id uuid.UUID) (view.Snapshot, error) {
	e, err := s.lookup(id)
	if err != nil {
		return view.Snapshot{}, err
	}
	return e.view.Snapshot(), nil
}

// SetCriteria replaces the view's filter criteria.
func (s *Service) SetCriteria(_ context.Context, id uuid.UUID, c models.Criteria) (view.Snapshot, error) {
	e, err := s.lookup(id)
	if err != nil {
		return view.Snapshot{}, err
	}
	snap, err := e.view.SetCriteria(c)
	if err != nil {
		return view.Snapshot{}, stateError(e.view, err)
	}
	return snap, nil
}

// SetSort replaces the view's sort.
func (s *Service) SetSort(_ context.Context, id uuid.UUID, sort models.Sort) (view.Snapshot, error) {
	e, err := s.lookup(id)
	if err != nil {
		return view.Snapshot{}, err
	}
	snap, err := e.view.SetSort(sort)
	if err != nil {
		return view.Snapshot{}, stateError(e.view, err)
	}
	return snap, nil
}

// Advance reveals the next page.
func (s *Service) Advance(_ context.Context, id uuid.UUID) (view.Snapshot, error) {
	e, err := s.lookup(id)
	if err != nil {
		return view.Snapshot{}, err
	}
	snap, _, err := e.view.Advance()
	if err != nil {
		return view.Snapshot{}, stateError(e.view, err)
	}
	return snap, nil
}

// NearEnd forwards a visibility signal from the consumer.
func (s *Service) NearEnd(_ context.Context, id uuid.UUID, visible bool) (view.Snapshot, error) {
	e, err := s.lookup(id)
	if err != nil {
		return view.Snapshot{}, err
	}
	snap, _, err := e.view.NearEnd(visible)
	if err != nil {
		return view.Snapshot{}, stateError(e.view, err)
	}
	return snap, nil
}

// Close discards a view and its dataset.
func (s *Service) Close(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	e, ok := s.views[id]
	delete(s.views, id)
	s.mu.Unlock()
	if !ok {
		return notFound()
	}
	e.cancel()
	s.metrics.DecrementViewsActive()
	s.logger.InfoContext(ctx, "view closed", "view_id", id)
	return nil
}

// Len returns the number of open views.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.views)
}

// StartCleanup expires idle views every interval until ctx is cancelled.
func (s *Service) StartCleanup(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = max(s.viewTTL/2, time.Second)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.ExpireAt(ctx, s.now())
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// ExpireAt closes every view untouched for longer than the view TTL as of
// now and returns how many were removed.
func (s *Service) ExpireAt(ctx context.Context, now time.Time) int {
	cutoff := now.Add(-s.viewTTL).UnixNano()

	s.mu.Lock()
	var expired []uuid.UUID
	for id, e := range s.views {
		if e.lastSeen.Load() < cutoff {
			expired = append(expired, id)
			delete(s.views, id)
			e.cancel()
		}
	}
	s.mu.Unlock()

	for _, id := range expired {
		s.metrics.DecrementViewsActive()
		s.logger.InfoContext(ctx, "view expired", "view_id", id)
	}
	return len(expired)
}

// Shutdown cancels in-flight loads and waits for them to return.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.cancelLoad()
	s.mu.Unlock()
	done := make(chan struct{})
	go func() {
		s.loads.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) lookup(id uuid.UUID) (*entry, error) {
	s.mu.RLock()
	e, ok := s.views[id]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound()
	}
	e.touch(s.now())
	return e, nil
}

func notFound() error {
	return dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound, "view not found")
}

// stateError translates a view lifecycle rejection into a domain error.
func stateError(v *view.View, err error) error {
	if !errors.Is(err, sentinel.ErrInvalidState) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "view operation failed")
	}
	switch v.State() {
	case view.StateLoading, view.StateIdle:
		return dErrors.Wrap(err, dErrors.CodeInvalidState, "view is still loading")
	case view.StateFailed:
		return dErrors.Wrap(err, dErrors.CodeInvalidState, "trial data is unavailable; open a new view to retry")
	default:
		return dErrors.Wrap(err, dErrors.CodeInvalidState, "view is not ready")
	}
}
