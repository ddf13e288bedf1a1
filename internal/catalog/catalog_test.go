package catalog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"dataportal/domain/dataset"
	"dataportal/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDatasetSource is a testify mock of ports.DatasetSource
type MockDatasetSource struct {
	mock.Mock
}

func (m *MockDatasetSource) ListDatasets(ctx context.Context) ([]dataset.Record, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]dataset.Record)
	return records, args.Error(1)
}

var fixture = []dataset.Record{
	{DatasetName: "CEMBA_1A", MethylationCellCount: dataset.NewCount(100), SnATACCellCount: dataset.NewCount(10), DateAdded: "2017-11-02"},
	{DatasetName: "CEMBA_3C", MethylationCellCount: dataset.NewCount(300), DateAdded: "2018-03-01"},
	{DatasetName: "CEMBA_4B", MethylationCellCount: dataset.NewCount(200), SnATACCellCount: dataset.NewCount(30), DateAdded: "2018-01-15"},
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestCatalogCachesUntilTTL(t *testing.T) {
	source := new(MockDatasetSource)
	source.On("ListDatasets", mock.Anything).Return(fixture, nil)
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}

	c := New(source, time.Minute)
	c.now = clock.Now

	for i := 0; i < 3; i++ {
		records, err := c.ListDatasets(context.Background())
		require.NoError(t, err)
		assert.Len(t, records, 3)
	}
	source.AssertNumberOfCalls(t, "ListDatasets", 1)

	clock.Advance(2 * time.Minute)
	_, err := c.ListDatasets(context.Background())
	require.NoError(t, err)
	source.AssertNumberOfCalls(t, "ListDatasets", 2)

	c.Invalidate()
	_, err = c.ListDatasets(context.Background())
	require.NoError(t, err)
	source.AssertNumberOfCalls(t, "ListDatasets", 3)
}

func TestCatalogCollapsesConcurrentLoads(t *testing.T) {
	release := make(chan time.Time)
	source := new(MockDatasetSource)
	source.On("ListDatasets", mock.Anything).
		WaitUntil(release).
		Return(fixture, nil)

	c := New(source, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records, err := c.ListDatasets(context.Background())
			assert.NoError(t, err)
			assert.Len(t, records, 3)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	source.AssertNumberOfCalls(t, "ListDatasets", 1)
}

func TestCatalogDoesNotCacheErrors(t *testing.T) {
	source := new(MockDatasetSource)
	source.On("ListDatasets", mock.Anything).Return(nil, fmt.Errorf("disk unplugged")).Once()
	source.On("ListDatasets", mock.Anything).Return(fixture, nil).Once()

	c := New(source, time.Minute)

	_, err := c.ListDatasets(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk unplugged")

	records, err := c.ListDatasets(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestCatalogFind(t *testing.T) {
	source := new(MockDatasetSource)
	source.On("ListDatasets", mock.Anything).Return(fixture, nil)
	c := New(source, time.Minute)

	rec, err := c.Find(context.Background(), "CEMBA_3C")
	require.NoError(t, err)
	assert.Equal(t, "2018-03-01", rec.DateAdded)

	_, err = c.Find(context.Background(), "CEMBA_9Z")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestSummarize(t *testing.T) {
	s := Summarize(fixture)

	assert.Equal(t, 3, s.Datasets)
	assert.Equal(t, "2018-03-01", s.LatestAdded)
	assert.Equal(t, CountSummary{Reported: 3, Total: 600, Median: 200, Max: 300}, s.MethylationCell)
	assert.Equal(t, CountSummary{Reported: 2, Total: 40, Median: 20, Max: 30}, s.SnATACCell)

	assert.Equal(t, Summary{}, Summarize(nil))
}

// blockingSource holds every load until release is closed
type blockingSource struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	calls   int32
}

func (s *blockingSource) ListDatasets(ctx context.Context) ([]dataset.Record, error) {
	atomic.AddInt32(&s.calls, 1)
	s.once.Do(func() { close(s.started) })
	select {
	case <-s.release:
		return fixture, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestCatalogSharedLoadSurvivesCancelledCaller(t *testing.T) {
	source := &blockingSource{started: make(chan struct{}), release: make(chan struct{})}
	c := New(source, time.Minute)

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := c.ListDatasets(leaderCtx)
		leaderErr <- err
	}()
	<-source.started

	type result struct {
		records []dataset.Record
		err     error
	}
	follower := make(chan result, 1)
	go func() {
		records, err := c.ListDatasets(context.Background())
		follower <- result{records, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)

	close(source.release)
	res := <-follower
	require.NoError(t, res.err)
	assert.Len(t, res.records, 3)
	assert.Equal(t, int32(1), atomic.LoadInt32(&source.calls))
}
