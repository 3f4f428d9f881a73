package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testudo-plus/schedule-api/internal/models"
	appErrors "github.com/testudo-plus/schedule-api/pkg/errors"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type memorySnapshotter struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemorySnapshotter() *memorySnapshotter {
	return &memorySnapshotter{files: make(map[string][]byte)}
}

func (m *memorySnapshotter) Save(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key] = data
	return nil
}

func (m *memorySnapshotter) Read(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[key]
	if !ok {
		return nil, errors.New("missing")
	}
	return data, nil
}

func (m *memorySnapshotter) List() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.files))
	for key := range m.files {
		keys = append(keys, key)
	}
	return keys, nil
}

func (m *memorySnapshotter) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, key)
	return nil
}

func cmscPartition() models.PartitionID {
	return models.PartitionID{Kind: models.PartitionDepartment, Key: "CMSC", TermID: "202508"}
}

func sampleSections() []models.CourseSection {
	return []models.CourseSection{
		{Code: "CMSC330", Section: "0101", Title: "Organization of Programming Languages", Credits: 3, Days: "MWF", Time: "10:00am-10:50am", TermID: "202508"},
		{Code: "CMSC351", Section: "0201", Title: "Algorithms", Credits: 3, Days: "TuTh", Time: "2:00pm-3:15pm", TermID: "202508"},
	}
}

func TestStoreResolveCachesWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)}
	store := NewStore(StoreConfig{TTL: 24 * time.Hour, Now: clock.Now})

	var fetches int32
	fetch := func(ctx context.Context, id models.PartitionID) ([]models.CourseSection, error) {
		atomic.AddInt32(&fetches, 1)
		return sampleSections(), nil
	}

	part, info, err := store.Resolve(context.Background(), cmscPartition(), fetch)
	require.NoError(t, err)
	assert.False(t, info.FromCache)
	assert.Len(t, part.Sections, 2)

	_, info, err = store.Resolve(context.Background(), cmscPartition(), fetch)
	require.NoError(t, err)
	assert.True(t, info.FromCache)
	assert.False(t, info.Stale)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches))

	clock.Advance(25 * time.Hour)

	_, info, err = store.Resolve(context.Background(), cmscPartition(), fetch)
	require.NoError(t, err)
	assert.False(t, info.FromCache)
	assert.Equal(t, int32(2), atomic.LoadInt32(&fetches))
}

func TestStoreSingleFlight(t *testing.T) {
	store := NewStore(StoreConfig{TTL: 24 * time.Hour})

	var fetches int32
	release := make(chan struct{})
	fetch := func(ctx context.Context, id models.PartitionID) ([]models.CourseSection, error) {
		atomic.AddInt32(&fetches, 1)
		<-release
		return sampleSections(), nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*models.CachePartition, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _, errs[i] = store.Resolve(context.Background(), cmscPartition(), fetch)
		}(i)
	}

	// Give every caller time to join the in-flight fetch before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches))
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Len(t, results[i].Sections, 2)
	}
}

type recordingMetrics struct {
	mu      sync.Mutex
	hits    int
	misses  int
	fetches int
}

func (r *recordingMetrics) RecordLookup(hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

func (r *recordingMetrics) RecordStaleServe() {}

func (r *recordingMetrics) ObserveFetch(d time.Duration, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches++
}

func TestStoreRefreshReplacesFreshEntry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)}
	store := NewStore(StoreConfig{TTL: 24 * time.Hour, Now: clock.Now})

	var fetches int32
	fetch := func(ctx context.Context, id models.PartitionID) ([]models.CourseSection, error) {
		atomic.AddInt32(&fetches, 1)
		if atomic.LoadInt32(&fetches) == 1 {
			return sampleSections()[:1], nil
		}
		return sampleSections(), nil
	}

	_, _, err := store.Resolve(context.Background(), cmscPartition(), fetch)
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&fetches))

	// The entry is still fresh; Resolve alone would never refetch it.
	require.NoError(t, store.Refresh(context.Background(), cmscPartition(), fetch))
	assert.Equal(t, int32(2), atomic.LoadInt32(&fetches))

	part, info, err := store.Resolve(context.Background(), cmscPartition(), fetch)
	require.NoError(t, err)
	assert.True(t, info.FromCache)
	assert.Len(t, part.Sections, 2, "resolve must see the refreshed contents")
	assert.Equal(t, int32(2), atomic.LoadInt32(&fetches))
}

func TestStoreRefreshFailureKeepsEntry(t *testing.T) {
	store := NewStore(StoreConfig{TTL: 24 * time.Hour})

	_, _, err := store.Resolve(context.Background(), cmscPartition(), func(ctx context.Context, id models.PartitionID) ([]models.CourseSection, error) {
		return sampleSections(), nil
	})
	require.NoError(t, err)

	err = store.Refresh(context.Background(), cmscPartition(), func(ctx context.Context, id models.PartitionID) ([]models.CourseSection, error) {
		return nil, errors.New("upstream down")
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrPartitionUnavailable))

	part, info, err := store.Resolve(context.Background(), cmscPartition(), func(ctx context.Context, id models.PartitionID) ([]models.CourseSection, error) {
		t.Error("fetch must not run while the entry is fresh")
		return nil, errors.New("unexpected fetch")
	})
	require.NoError(t, err)
	assert.True(t, info.FromCache)
	assert.Len(t, part.Sections, 2)
}

func TestStoreCoalescedResolvesCountAsHits(t *testing.T) {
	metrics := &recordingMetrics{}
	store := NewStore(StoreConfig{TTL: 24 * time.Hour, Metrics: metrics})

	release := make(chan struct{})
	fetch := func(ctx context.Context, id models.PartitionID) ([]models.CourseSection, error) {
		<-release
		return sampleSections(), nil
	}

	const callers = 2
	var wg sync.WaitGroup
	infos := make([]ResolveInfo, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, infos[i], errs[i] = store.Resolve(context.Background(), cmscPartition(), fetch)
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.True(t, infos[i].FromCache, "a caller sharing an in-flight fetch was served without one of its own")
	}
	metrics.mu.Lock()
	defer metrics.mu.Unlock()
	assert.Equal(t, 1, metrics.fetches)
	assert.Equal(t, callers, metrics.hits+metrics.misses, "one lookup event per resolve")
	assert.Zero(t, metrics.misses)
}

func TestStoreServesStaleOnFetchFailure(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)}
	store := NewStore(StoreConfig{TTL: 24 * time.Hour, Now: clock.Now})

	fetchOK := func(ctx context.Context, id models.PartitionID) ([]models.CourseSection, error) {
		return sampleSections(), nil
	}
	_, _, err := store.Resolve(context.Background(), cmscPartition(), fetchOK)
	require.NoError(t, err)

	clock.Advance(25 * time.Hour)

	fetchFail := func(ctx context.Context, id models.PartitionID) ([]models.CourseSection, error) {
		return nil, errors.New("upstream down")
	}
	part, info, err := store.Resolve(context.Background(), cmscPartition(), fetchFail)
	require.NoError(t, err)
	assert.True(t, info.Stale)
	assert.True(t, info.FromCache)
	assert.Len(t, part.Sections, 2)
}

func TestStoreFetchFailureWithoutEntry(t *testing.T) {
	store := NewStore(StoreConfig{TTL: 24 * time.Hour})

	fetch := func(ctx context.Context, id models.PartitionID) ([]models.CourseSection, error) {
		return nil, errors.New("upstream down")
	}
	_, _, err := store.Resolve(context.Background(), cmscPartition(), fetch)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrPartitionUnavailable))
}

func TestStoreSnapshotSeeding(t *testing.T) {
	snaps := newMemorySnapshotter()
	clock := &fakeClock{now: time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)}

	first := NewStore(StoreConfig{TTL: 24 * time.Hour, Snapshots: snaps, Now: clock.Now})
	_, _, err := first.Resolve(context.Background(), cmscPartition(), func(ctx context.Context, id models.PartitionID) ([]models.CourseSection, error) {
		return sampleSections(), nil
	})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second := NewStore(StoreConfig{TTL: 24 * time.Hour, Snapshots: snaps, Now: clock.Now})
	require.Equal(t, 1, second.Load())

	part, info, err := second.Resolve(context.Background(), cmscPartition(), func(ctx context.Context, id models.PartitionID) ([]models.CourseSection, error) {
		t.Error("fetch must not run when a seeded snapshot is fresh")
		return nil, errors.New("unexpected fetch")
	})
	require.NoError(t, err)
	assert.True(t, info.FromCache)
	assert.Len(t, part.Sections, 2)
}

func TestStoreLoadIgnoresExpiredSnapshots(t *testing.T) {
	snaps := newMemorySnapshotter()
	clock := &fakeClock{now: time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)}

	rec := snapshotRecord{
		Kind:      models.PartitionDepartment,
		Key:       "CMSC",
		TermID:    "202508",
		FetchedAt: clock.Now().Add(-25 * time.Hour),
		Sections:  sampleSections(),
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	require.NoError(t, snaps.Save(rec.partition().ID.String(), data))

	store := NewStore(StoreConfig{TTL: 24 * time.Hour, Snapshots: snaps, Now: clock.Now})
	assert.Equal(t, 0, store.Load())
}

func TestStoreExpiring(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)}
	store := NewStore(StoreConfig{TTL: 24 * time.Hour, Now: clock.Now})

	_, _, err := store.Resolve(context.Background(), cmscPartition(), func(ctx context.Context, id models.PartitionID) ([]models.CourseSection, error) {
		return sampleSections(), nil
	})
	require.NoError(t, err)

	assert.Empty(t, store.Expiring(time.Hour))

	clock.Advance(23*time.Hour + 30*time.Minute)
	ids := store.Expiring(time.Hour)
	require.Len(t, ids, 1)
	assert.Equal(t, "CMSC", ids[0].Key)
}
