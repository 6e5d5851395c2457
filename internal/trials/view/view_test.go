package view

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"trialfinder/internal/trials/models"
	"trialfinder/internal/trials/source"
	"trialfinder/internal/trials/source/mocks"
	"trialfinder/pkg/platform/sentinel"
	"trialfinder/pkg/testutil"
)

func makeTrials(n int) []models.Trial {
	out := make([]models.Trial, n)
	for i := range out {
		out[i] = models.Trial{
			ID:    fmt.Sprint(i + 1),
			NCTID: fmt.Sprintf("NCT%08d", i+1),
			Title: fmt.Sprintf("Trial %02d", i+1),
			Phase: "Phase III",
		}
		if i%2 == 0 {
			out[i].Status = "RECRUITING"
		} else {
			out[i].Status = "COMPLETED"
		}
	}
	return out
}

func loadedView(t *testing.T, trials []models.Trial, pageSize int) *View {
	t.Helper()
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	src.EXPECT().Fetch(gomock.Any()).Return(trials, nil)

	v := New(pageSize)
	require.NoError(t, v.Load(context.Background(), src))
	require.Equal(t, StateLoaded, v.State())
	return v
}

// blockingSource holds Fetch open until released.
type blockingSource struct {
	started chan struct{}
	release chan struct{}
	trials  []models.Trial
}

func newBlockingSource(trials []models.Trial) *blockingSource {
	return &blockingSource{started: make(chan struct{}), release: make(chan struct{}), trials: trials}
}

func (b *blockingSource) Name() string { return "blocking" }

func (b *blockingSource) Fetch(ctx context.Context) ([]models.Trial, error) {
	close(b.started)
	select {
	case <-b.release:
		return b.trials, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestPagingThirtyTrials(t *testing.T) {
	v := loadedView(t, makeTrials(30), 25)

	snap := v.Snapshot()
	assert.Len(t, snap.Rows, 25)
	assert.Equal(t, 25, snap.Visible)
	assert.Equal(t, 30, snap.FilteredTotal)
	assert.Equal(t, 30, snap.DatasetTotal)
	assert.True(t, snap.HasMore)
	assert.False(t, snap.NoResults)
	require.NotNil(t, snap.LoadedAt)

	snap, advanced, err := v.Advance()
	require.NoError(t, err)
	assert.True(t, advanced)
	assert.Len(t, snap.Rows, 30)
	assert.False(t, snap.HasMore)

	snap, advanced, err = v.Advance()
	require.NoError(t, err)
	assert.False(t, advanced)
	assert.Len(t, snap.Rows, 30)
}

func TestFailedLoad(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	fetchErr := source.NewFetchError(source.ErrorOutage, "mock", "connection refused", errors.New("dial tcp"))
	src.EXPECT().Fetch(gomock.Any()).Return(nil, fetchErr)

	v := New(25)
	err := v.Load(context.Background(), src)
	require.ErrorIs(t, err, fetchErr)

	testutil.Then(t, "the view reports failure without data", func(t *testing.T) {
		snap := v.Snapshot()
		assert.Equal(t, StateFailed, snap.State)
		assert.Empty(t, snap.Rows)
		assert.False(t, snap.NoResults, "failure is distinct from no results")
		require.NotNil(t, snap.Failure)
		assert.Equal(t, string(source.ErrorOutage), snap.Failure.Category)
		assert.Equal(t, fetchErr, v.Err())
	})

	testutil.Then(t, "pipeline operations are rejected", func(t *testing.T) {
		_, err := v.SetCriteria(models.Criteria{Status: "RECRUITING"})
		assert.ErrorIs(t, err, sentinel.ErrInvalidState)
		_, err = v.SetSort(models.Sort{Key: models.SortTitle})
		assert.ErrorIs(t, err, sentinel.ErrInvalidState)
		_, _, err = v.Advance()
		assert.ErrorIs(t, err, sentinel.ErrInvalidState)
		_, _, err = v.NearEnd(true)
		assert.ErrorIs(t, err, sentinel.ErrInvalidState)
		_, err = v.Results()
		assert.ErrorIs(t, err, sentinel.ErrInvalidState)
		_, err = v.Dataset()
		assert.ErrorIs(t, err, sentinel.ErrInvalidState)
	})

	testutil.Then(t, "the view does not retry", func(t *testing.T) {
		assert.ErrorIs(t, v.Load(context.Background(), src), sentinel.ErrInvalidState)
	})
}

func TestOperationsBeforeLoad(t *testing.T) {
	v := New(25)
	snap := v.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.NotNil(t, snap.Rows)

	_, _, err := v.Advance()
	assert.ErrorIs(t, err, sentinel.ErrInvalidState)
}

func TestCriteriaChangeResetsPaging(t *testing.T) {
	v := loadedView(t, makeTrials(60), 10)
	_, _, err := v.Advance()
	require.NoError(t, err)
	_, _, err = v.Advance()
	require.NoError(t, err)
	require.Equal(t, 30, v.Snapshot().Visible)

	testutil.When(t, "the same criteria are set again", func(t *testing.T) {
		snap, err := v.SetCriteria(models.Criteria{})
		require.NoError(t, err)
		assert.Equal(t, 3, snap.Pages)
	})

	testutil.When(t, "criteria change", func(t *testing.T) {
		snap, err := v.SetCriteria(models.Criteria{Status: "RECRUITING"})
		require.NoError(t, err)
		assert.Equal(t, 1, snap.Pages)
		assert.Equal(t, 10, snap.Visible)
		assert.Equal(t, 30, snap.FilteredTotal)
		assert.Equal(t, 60, snap.DatasetTotal)
		for _, row := range snap.Rows {
			assert.Equal(t, "RECRUITING", row.Status)
		}
	})

	testutil.When(t, "sort changes", func(t *testing.T) {
		_, _, err := v.Advance()
		require.NoError(t, err)
		snap, err := v.SetSort(models.Sort{Key: models.SortTitle, Direction: models.Descending})
		require.NoError(t, err)
		assert.Equal(t, 1, snap.Pages)
		assert.Equal(t, "Trial 59", snap.Rows[0].Title)
	})

	testutil.When(t, "direction alone flips", func(t *testing.T) {
		_, _, err := v.Advance()
		require.NoError(t, err)
		snap, err := v.SetSort(models.Sort{Key: models.SortTitle, Direction: models.Ascending})
		require.NoError(t, err)
		assert.Equal(t, 1, snap.Pages)
		assert.Equal(t, "Trial 01", snap.Rows[0].Title)
	})

	testutil.When(t, "sort is cleared", func(t *testing.T) {
		snap, err := v.SetSort(models.Sort{})
		require.NoError(t, err)
		assert.False(t, snap.Sort.Active())
		assert.Equal(t, "Trial 01", snap.Rows[0].Title)
	})
}

func TestNoResults(t *testing.T) {
	v := loadedView(t, makeTrials(5), 25)
	snap, err := v.SetCriteria(models.Criteria{Status: "NO_SUCH_STATUS"})
	require.NoError(t, err)
	assert.True(t, snap.NoResults)
	assert.Equal(t, StateLoaded, snap.State)
	assert.Nil(t, snap.Failure)
	assert.False(t, snap.HasMore)
}

func TestNearEndFiresOncePerTransition(t *testing.T) {
	v := loadedView(t, makeTrials(100), 10)

	_, advanced, err := v.NearEnd(true)
	require.NoError(t, err)
	assert.True(t, advanced)

	_, advanced, err = v.NearEnd(true)
	require.NoError(t, err)
	assert.False(t, advanced, "repeated visibility does not advance again")

	_, _, err = v.NearEnd(false)
	require.NoError(t, err)
	snap, advanced, err := v.NearEnd(true)
	require.NoError(t, err)
	assert.True(t, advanced)
	assert.Equal(t, 30, snap.Visible)
}

func TestNearEndIgnoredWhileLoading(t *testing.T) {
	src := newBlockingSource(makeTrials(40))
	v := New(10)

	loadErr := make(chan error, 1)
	go func() { loadErr <- v.Load(context.Background(), src) }()
	<-src.started

	snap, advanced, err := v.NearEnd(true)
	require.NoError(t, err)
	assert.False(t, advanced)
	assert.Equal(t, StateLoading, snap.State)

	_, _, err = v.Advance()
	assert.ErrorIs(t, err, sentinel.ErrInvalidState)

	close(src.release)
	require.NoError(t, <-loadErr)
	require.NoError(t, v.Wait(context.Background()))

	snap = v.Snapshot()
	assert.Equal(t, 10, snap.Visible, "signals during loading leave paging untouched")

	_, advanced, err = v.NearEnd(true)
	require.NoError(t, err)
	assert.True(t, advanced, "first signal after loading counts as a transition")
}

func TestWaitHonoursContext(t *testing.T) {
	v := New(10)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, v.Wait(ctx), context.DeadlineExceeded)
}

func TestResultsIsFullList(t *testing.T) {
	v := loadedView(t, makeTrials(30), 25)
	_, err := v.SetSort(models.Sort{Key: models.SortNCTID, Direction: models.Descending})
	require.NoError(t, err)

	results, err := v.Results()
	require.NoError(t, err)
	assert.Len(t, results, 30)
	assert.Equal(t, "NCT00000030", results[0].NCTID)

	dataset, err := v.Dataset()
	require.NoError(t, err)
	assert.Equal(t, "NCT00000001", dataset[0].NCTID, "dataset keeps upstream order")
}

func TestConcurrentOperations(t *testing.T) {
	v := loadedView(t, makeTrials(200), 10)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 50 {
				switch (i + j) % 4 {
				case 0:
					_, _, _ = v.Advance()
				case 1:
					_, _ = v.SetCriteria(models.Criteria{Search: fmt.Sprint(j % 3)})
				case 2:
					_, _ = v.SetSort(models.Sort{Key: models.SortTitle})
				default:
					snap := v.Snapshot()
					assert.LessOrEqual(t, snap.Visible, snap.FilteredTotal)
					assert.Len(t, snap.Rows, snap.Visible)
				}
			}
		}()
	}
	wg.Wait()
}
