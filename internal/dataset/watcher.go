package dataset

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/typhoon-dashboard/internal/domain"
	"github.com/jonboulle/clockwork"
)

// Fingerprinter identifies the current content of an artifact.
type Fingerprinter interface {
	Fingerprint(name domain.Name) (string, error)
}

// Invalidator drops cached datasets.
type Invalidator interface {
	Invalidate(names ...domain.Name)
}

// Watcher polls artifact fingerprints in development mode and invalidates
// the cache entries of artifacts that changed.
type Watcher struct {
	fp       Fingerprinter
	target   Invalidator
	interval time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger
	last     map[domain.Name]string
}

// NewWatcher creates a watcher. Pass a nil clock to use real time.
func NewWatcher(fp Fingerprinter, target Invalidator, interval time.Duration, clock clockwork.Clock, logger *slog.Logger) *Watcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Watcher{
		fp:       fp,
		target:   target,
		interval: interval,
		clock:    clock,
		logger:   logger,
	}
}

// Poll compares fingerprints with the previous poll and invalidates changed
// datasets. The first poll only records a baseline. It returns the names
// that were invalidated.
func (w *Watcher) Poll() []domain.Name {
	current := make(map[domain.Name]string, len(domain.Names))
	for _, n := range domain.Names {
		fp, err := w.fp.Fingerprint(n)
		if err != nil {
			w.logger.Warn("fingerprint failed", "dataset", n, "error", err)
			fp = "error"
		}
		current[n] = fp
	}

	if w.last == nil {
		w.last = current
		return nil
	}

	var changed []domain.Name
	for _, n := range domain.Names {
		if current[n] != w.last[n] {
			changed = append(changed, n)
		}
	}
	w.last = current

	if len(changed) > 0 {
		w.logger.Info("dataset artifacts changed", "datasets", changed)
		w.target.Invalidate(changed...)
	}
	return changed
}

// Run polls on every tick until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("dataset watcher started", "interval", w.interval)
	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	w.Poll()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("dataset watcher stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			w.Poll()
		}
	}
}
