package dataset

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/typhoon-dashboard/internal/domain"
	"github.com/couchcryptid/typhoon-dashboard/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(src Source) (*Cache, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	return NewCache(src, slog.Default(), metrics), metrics
}

func yearsTable() *domain.Table {
	return domain.MustTable([]string{"year"}, []string{"1991"}, []string{"2013"})
}

func TestCache_AbsentIsCached(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC))
	domain.SetClock(fakeClock)
	t.Cleanup(func() { domain.SetClock(nil) })

	src := newMemorySource(nil)
	cache, metrics := newTestCache(src)

	first := cache.Load(context.Background(), domain.Mindanao)
	fakeClock.Advance(time.Hour)
	second := cache.Load(context.Background(), domain.Mindanao)

	assert.False(t, first.Present())
	assert.Equal(t, first, second, "same cached sentinel, same LoadedAt")
	assert.Equal(t, 1, src.Calls(domain.Mindanao))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("miss")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.DatasetLoads.WithLabelValues("mindanao", "absent")), 0)
}

func TestCache_LoadedIsCached(t *testing.T) {
	src := newMemorySource(map[domain.Name]*domain.Table{domain.YearlyStorms: yearsTable()})
	cache, metrics := newTestCache(src)

	a := cache.Load(context.Background(), domain.YearlyStorms)
	b := cache.Load(context.Background(), domain.YearlyStorms)

	require.True(t, a.Present())
	assert.Same(t, a.Table, b.Table)
	assert.Equal(t, 1, src.Calls(domain.YearlyStorms))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.DatasetLoads.WithLabelValues("yearly_storms", "loaded")), 0)
}

func TestCache_SourceErrorBecomesAbsent(t *testing.T) {
	src := newMemorySource(nil)
	src.Fail(domain.KPI, errors.New("permission denied"))
	cache, metrics := newTestCache(src)

	d := cache.Load(context.Background(), domain.KPI)
	assert.False(t, d.Present())
	assert.Equal(t, domain.KPI, d.Name)
	assert.Contains(t, d.Reason, "permission denied")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.DatasetLoads.WithLabelValues("kpi", "malformed")), 0)
}

func TestCache_MalformedFileBecomesAbsent(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, domain.KPI, "decade\n1980s\n")
	cache, _ := newTestCache(NewFileSource(dir))

	d := cache.Load(context.Background(), domain.KPI)
	assert.False(t, d.Present())
	assert.Contains(t, d.Reason, "missing columns")
}

func TestCache_LoadAll(t *testing.T) {
	cache, metrics := newTestCache(NewFileSource(fixtureDir))
	require.Error(t, cache.CheckReadiness(context.Background()))

	snap := cache.LoadAll(context.Background())
	assert.Len(t, snap, len(domain.Names))
	assert.Equal(t, domain.Names, snap.Available())
	assert.InDelta(t, 8, testutil.ToFloat64(metrics.DatasetsAvailable), 0)
	require.NoError(t, cache.CheckReadiness(context.Background()))

	again := cache.LoadAll(context.Background())
	for _, n := range domain.Names {
		assert.Same(t, snap[n].Table, again[n].Table)
	}
}

func TestCache_LoadAll_NothingAvailable(t *testing.T) {
	cache, _ := newTestCache(NewFileSource(t.TempDir()))

	snap := cache.LoadAll(context.Background())
	assert.Len(t, snap, len(domain.Names))
	assert.Empty(t, snap.Available())
	require.NoError(t, cache.CheckReadiness(context.Background()), "absence is still a completed load")
}

func TestCache_Invalidate(t *testing.T) {
	src := newMemorySource(map[domain.Name]*domain.Table{domain.YearlyStorms: yearsTable()})
	cache, metrics := newTestCache(src)

	before := cache.LoadAll(context.Background())
	require.True(t, before[domain.YearlyStorms].Present())

	updated := domain.MustTable([]string{"year"}, []string{"2024"})
	src.Put(domain.YearlyStorms, updated)

	cache.Invalidate(domain.YearlyStorms)
	after := cache.LoadAll(context.Background())

	assert.Same(t, updated, after[domain.YearlyStorms].Table)
	assert.Equal(t, 2, src.Calls(domain.YearlyStorms))
	assert.Equal(t, 1, src.Calls(domain.KPI), "untouched entries stay cached")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.CacheInvalidations), 0)

	cache.Invalidate()
	cache.LoadAll(context.Background())
	assert.Equal(t, 2, src.Calls(domain.KPI))
}

// blockingSource counts loads and holds them until released so concurrent
// cold loads overlap.
type blockingSource struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func (b *blockingSource) Load(_ context.Context, name domain.Name) (domain.Dataset, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	<-b.release
	return domain.Loaded(name, yearsTable()), nil
}

func TestCache_ConcurrentColdLoadsConverge(t *testing.T) {
	src := &blockingSource{release: make(chan struct{})}
	cache, _ := newTestCache(src)

	const workers = 16
	results := make([]domain.Dataset, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = cache.Load(context.Background(), domain.YearlyStorms)
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(src.release)
	wg.Wait()

	for _, r := range results {
		require.True(t, r.Present())
		assert.Same(t, results[0].Table, r.Table)
	}
	assert.Equal(t, results[0], cache.Load(context.Background(), domain.YearlyStorms))
}
