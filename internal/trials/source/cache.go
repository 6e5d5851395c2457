package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"trialfinder/internal/trials/metrics"
	"trialfinder/internal/trials/models"
	"trialfinder/pkg/platform/sentinel"
)

// SnapshotStore caches whole fetched collections under a key.
// Load returns sentinel.ErrNotFound on a miss or an expired entry.
type SnapshotStore interface {
	Load(ctx context.Context, key string) ([]models.Trial, error)
	Save(ctx context.Context, key string, trials []models.Trial) error
}

// CachedSource is a read-through cache in front of another Source. It caches
// the upstream response only; every view still receives its own slice.
type CachedSource struct {
	next    Source
	store   SnapshotStore
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewCachedSource wraps next with store.
func NewCachedSource(next Source, store SnapshotStore, logger *slog.Logger, m *metrics.Metrics) *CachedSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSource{next: next, store: store, logger: logger, metrics: m}
}

// Name implements Source.
func (c *CachedSource) Name() string {
	return c.next.Name()
}

func (c *CachedSource) key() string {
	return "trialfinder:snapshot:" + c.next.Name()
}

// Fetch implements Source. Cache failures are logged and never fail the fetch.
func (c *CachedSource) Fetch(ctx context.Context) ([]models.Trial, error) {
	cached, err := c.store.Load(ctx, c.key())
	switch {
	case err == nil:
		c.metrics.RecordCacheHit()
		return cached, nil
	case errors.Is(err, sentinel.ErrNotFound):
		c.metrics.RecordCacheMiss()
	default:
		c.metrics.RecordCacheMiss()
		c.logger.WarnContext(ctx, "snapshot cache load failed", "source", c.Name(), "error", err)
	}

	trials, err := c.next.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.store.Save(ctx, c.key(), trials); err != nil {
		c.logger.WarnContext(ctx, "snapshot cache save failed", "source", c.Name(), "error", err)
	}
	return trials, nil
}

type cachedSnapshot struct {
	trials   []models.Trial
	storedAt time.Time
}

// InMemorySnapshotStore keeps snapshots in process memory with TTL expiration.
type InMemorySnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]cachedSnapshot
	ttl       time.Duration
	now       func() time.Time
}

// NewInMemorySnapshotStore creates an in-memory store with the given TTL.
func NewInMemorySnapshotStore(ttl time.Duration) *InMemorySnapshotStore {
	return &InMemorySnapshotStore{
		snapshots: make(map[string]cachedSnapshot),
		ttl:       ttl,
		now:       time.Now,
	}
}

// Save stores a copy of trials under key.
func (s *InMemorySnapshotStore) Save(_ context.Context, key string, trials []models.Trial) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[key] = cachedSnapshot{trials: cloneTrials(trials), storedAt: s.now()}
	return nil
}

// Load returns a copy of the snapshot under key, or sentinel.ErrNotFound if it
// does not exist or has expired past the TTL.
func (s *InMemorySnapshotStore) Load(_ context.Context, key string) ([]models.Trial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cached, ok := s.snapshots[key]; ok {
		if s.now().Sub(cached.storedAt) < s.ttl {
			return cloneTrials(cached.trials), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// cloneTrials copies the slice header array. Trial values share their inner
// slices, which nothing downstream mutates.
func cloneTrials(trials []models.Trial) []models.Trial {
	out := make([]models.Trial, len(trials))
	copy(out, trials)
	return out
}

// RedisSnapshotStore keeps snapshots in redis as JSON with a TTL.
type RedisSnapshotStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisSnapshotStore creates a redis-backed store.
func NewRedisSnapshotStore(client redis.UniversalClient, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client, ttl: ttl}
}

// Save implements SnapshotStore.
func (s *RedisSnapshotStore) Save(ctx context.Context, key string, trials []models.Trial) error {
	payload, err := json.Marshal(trials)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load implements SnapshotStore.
func (s *RedisSnapshotStore) Load(ctx context.Context, key string) ([]models.Trial, error) {
	payload, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	var trials []models.Trial
	if err := json.Unmarshal(payload, &trials); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return trials, nil
}
