// Package view holds one consumer's session over a fetched trial dataset:
// the load lifecycle plus the filter -> sort -> paginate pipeline.
package view

import (
	"context"
	"slices"
	"sync"
	"time"

	"trialfinder/internal/trials/filter"
	"trialfinder/internal/trials/models"
	"trialfinder/internal/trials/paginate"
	"trialfinder/internal/trials/sorting"
	"trialfinder/internal/trials/source"
	"trialfinder/pkg/platform/sentinel"
)

// State is the load lifecycle of a view.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateFailed  State = "failed"
)

// View is safe for concurrent use. The dataset is immutable once loaded;
// every change to criteria, sort, or page count recomputes the derived list
// while holding the view's lock.
type View struct {
	mu       sync.Mutex
	state    State
	dataset  []models.Trial
	criteria models.Criteria
	sort     models.Sort
	results  []models.Trial
	pager    *paginate.Paginator
	loadErr  error
	loadedAt time.Time
	done     chan struct{}
}

// New returns an idle view that reveals pageSize rows per page.
func New(pageSize int) *View {
	return &View{
		state: StateIdle,
		pager: paginate.New(pageSize),
		done:  make(chan struct{}),
	}
}

// Load fetches the dataset from src. It may run once per view; a failed load
// is final and the caller opens a new view to retry.
func (v *View) Load(ctx context.Context, src source.Source) error {
	v.mu.Lock()
	if v.state != StateIdle {
		v.mu.Unlock()
		return sentinel.ErrInvalidState
	}
	v.state = StateLoading
	v.mu.Unlock()

	trials, err := src.Fetch(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	defer close(v.done)
	if err != nil {
		v.state = StateFailed
		v.loadErr = err
		return err
	}
	v.dataset = slices.Clip(trials)
	v.state = StateLoaded
	v.loadedAt = time.Now()
	v.recompute()
	return nil
}

// Done is closed once a load has finished, successfully or not.
func (v *View) Done() <-chan struct{} {
	return v.done
}

// Wait blocks until the load finishes or ctx ends.
func (v *View) Wait(ctx context.Context) error {
	select {
	case <-v.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the current lifecycle state.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Err returns the load failure, if any.
func (v *View) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loadErr
}

// SetCriteria replaces the filter criteria. Unchanged criteria keep the
// current page count; anything else returns to the first page.
func (v *View) SetCriteria(c models.Criteria) (Snapshot, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateLoaded {
		return Snapshot{}, sentinel.ErrInvalidState
	}
	c = c.Normalize()
	if !c.Equal(v.criteria) {
		v.criteria = c
		v.recompute()
	}
	return v.snapshot(), nil
}

// SetSort replaces the sort key and direction, returning to the first page
// when either changes.
func (v *View) SetSort(s models.Sort) (Snapshot, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateLoaded {
		return Snapshot{}, sentinel.ErrInvalidState
	}
	if s.Key == models.SortNone {
		s = models.Sort{}
	} else if s.Direction == "" {
		s.Direction = models.Ascending
	}
	if s != v.sort {
		v.sort = s
		v.recompute()
	}
	return v.snapshot(), nil
}

// Advance reveals one more page if any rows are hidden.
func (v *View) Advance() (Snapshot, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateLoaded {
		return Snapshot{}, false, sentinel.ErrInvalidState
	}
	advanced := v.pager.Advance()
	return v.snapshot(), advanced, nil
}

// NearEnd records whether the end of the revealed rows is visible to the
// consumer. Signals before the load completes are accepted and ignored.
func (v *View) NearEnd(visible bool) (Snapshot, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch v.state {
	case StateIdle, StateLoading:
		v.pager.NearEnd(visible, true)
		return v.snapshot(), false, nil
	case StateLoaded:
		advanced := v.pager.NearEnd(visible, false)
		return v.snapshot(), advanced, nil
	default:
		return Snapshot{}, false, sentinel.ErrInvalidState
	}
}

// Snapshot returns the current state and revealed rows.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshot()
}

// Results returns the whole filtered and sorted list, not just the revealed
// page. The slice is shared and must not be modified.
func (v *View) Results() ([]models.Trial, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateLoaded {
		return nil, sentinel.ErrInvalidState
	}
	return v.results, nil
}

// Dataset returns the unfiltered collection. The slice is shared and must not
// be modified.
func (v *View) Dataset() ([]models.Trial, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateLoaded {
		return nil, sentinel.ErrInvalidState
	}
	return v.dataset, nil
}

// recompute derives results from the dataset. Callers hold v.mu.
func (v *View) recompute() {
	v.results = slices.Clip(sorting.Sort(filter.Apply(v.dataset, v.criteria), v.sort))
	v.pager.Reset(len(v.results))
}
