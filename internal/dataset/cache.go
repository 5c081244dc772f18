package dataset

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/couchcryptid/typhoon-dashboard/internal/domain"
	"github.com/couchcryptid/typhoon-dashboard/internal/observability"
	"golang.org/x/sync/singleflight"
)

// Cache memoizes a Source for the process lifetime. It is the loading
// boundary: source errors are logged and become Absent datasets, so callers
// only ever see a loaded table or the sentinel.
//
// Reads share a lock. Concurrent cold loads of one name collapse into a
// single source call and observe the same cached value.
type Cache struct {
	source  Source
	logger  *slog.Logger
	metrics *observability.Metrics

	mu       sync.RWMutex
	entries  map[domain.Name]domain.Dataset
	snapshot domain.Snapshot
	gen      uint64

	group singleflight.Group
	warm  atomic.Bool
}

// NewCache wraps source with a load-once cache.
func NewCache(source Source, logger *slog.Logger, metrics *observability.Metrics) *Cache {
	return &Cache{
		source:  source,
		logger:  logger,
		metrics: metrics,
		entries: make(map[domain.Name]domain.Dataset, len(domain.Names)),
	}
}

// Load returns the cached dataset for name, loading it on first use.
func (c *Cache) Load(ctx context.Context, name domain.Name) domain.Dataset {
	if d, ok := c.lookup(name); ok {
		c.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return d
	}
	c.metrics.CacheLookups.WithLabelValues("miss").Inc()

	v, _, _ := c.group.Do(string(name), func() (any, error) {
		if d, ok := c.lookup(name); ok {
			return d, nil
		}
		c.mu.RLock()
		gen := c.gen
		c.mu.RUnlock()

		d := c.fetch(ctx, name)

		c.mu.Lock()
		if c.gen == gen {
			c.entries[name] = d
		}
		c.mu.Unlock()
		return d, nil
	})
	return v.(domain.Dataset)
}

// LoadAll returns every dataset. The snapshot is memoized alongside the
// per-name entries and must be treated as read-only.
func (c *Cache) LoadAll(ctx context.Context) domain.Snapshot {
	c.mu.RLock()
	snap, gen := c.snapshot, c.gen
	c.mu.RUnlock()
	if snap != nil {
		return snap
	}

	snap = make(domain.Snapshot, len(domain.Names))
	for _, n := range domain.Names {
		snap[n] = c.Load(ctx, n)
	}

	c.mu.Lock()
	if c.gen == gen {
		c.snapshot = snap
	}
	c.mu.Unlock()

	c.metrics.DatasetsAvailable.Set(float64(len(snap.Available())))
	c.warm.Store(true)
	return snap
}

// Invalidate drops the named entries, or every entry when none are given.
func (c *Cache) Invalidate(names ...domain.Name) {
	if len(names) == 0 {
		names = domain.Names
	}

	c.mu.Lock()
	for _, n := range names {
		delete(c.entries, n)
		c.group.Forget(string(n))
	}
	c.snapshot = nil
	c.gen++
	c.mu.Unlock()

	c.metrics.CacheInvalidations.Inc()
	c.logger.Info("dataset cache invalidated", "datasets", names)
}

// CheckReadiness returns nil once the first LoadAll has completed.
func (c *Cache) CheckReadiness(_ context.Context) error {
	if !c.warm.Load() {
		return errors.New("datasets have not been loaded yet")
	}
	return nil
}

func (c *Cache) lookup(name domain.Name) (domain.Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.entries[name]
	return d, ok
}

func (c *Cache) fetch(ctx context.Context, name domain.Name) domain.Dataset {
	d, err := c.source.Load(ctx, name)
	if err != nil {
		c.logger.Warn("dataset unusable, treating as absent", "dataset", name, "error", err)
		c.metrics.DatasetLoads.WithLabelValues(string(name), "malformed").Inc()
		return domain.Absent(name, err.Error())
	}
	d.Name = name

	if !d.Present() {
		c.logger.Warn("dataset absent", "dataset", name, "reason", d.Reason)
		c.metrics.DatasetLoads.WithLabelValues(string(name), "absent").Inc()
		return d
	}

	c.logger.Info("dataset loaded", "dataset", name, "rows", d.Table.Len(), "columns", len(d.Table.Columns()))
	c.metrics.DatasetLoads.WithLabelValues(string(name), "loaded").Inc()
	return d
}
