// Package dashboard orchestrates a request: snapshot the cached datasets,
// render the requested view, and serve its charts and exports.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/couchcryptid/typhoon-dashboard/internal/adapter/chart"
	"github.com/couchcryptid/typhoon-dashboard/internal/adapter/export"
	"github.com/couchcryptid/typhoon-dashboard/internal/domain"
	"github.com/couchcryptid/typhoon-dashboard/internal/observability"
	"github.com/couchcryptid/typhoon-dashboard/internal/view"
)

var (
	// ErrUnknownChart is returned when a section has no chart with the requested id.
	ErrUnknownChart = errors.New("unknown chart")
	// ErrUnavailable is returned when exporting a dataset that is absent.
	ErrUnavailable = errors.New("dataset unavailable")
	// ErrUnknownFormat is returned for export formats other than csv and xlsx.
	ErrUnknownFormat = errors.New("unknown export format")
)

// Loader supplies cached datasets.
type Loader interface {
	Load(ctx context.Context, name domain.Name) domain.Dataset
	LoadAll(ctx context.Context) domain.Snapshot
	Invalidate(names ...domain.Name)
	CheckReadiness(ctx context.Context) error
}

// Service renders dashboard pages from a Loader.
type Service struct {
	loader  Loader
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Service.
func New(loader Loader, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{loader: loader, logger: logger, metrics: metrics}
}

// Render produces the page for an intent.
func (s *Service) Render(ctx context.Context, in view.Intent) view.Page {
	start := time.Now()
	p := view.Render(in, s.loader.LoadAll(ctx))

	section := string(p.Intent.Section)
	s.metrics.ViewRenders.WithLabelValues(section).Inc()
	s.metrics.ViewRenderDuration.WithLabelValues(section).Observe(time.Since(start).Seconds())
	s.logger.Debug("view rendered", "section", section, "decade", p.Intent.Decade, "blocks", len(p.Blocks))
	return p
}

// Chart renders one chart of the intent's page as SVG.
func (s *Service) Chart(ctx context.Context, w io.Writer, in view.Intent, id string) error {
	c, ok := view.Render(in, s.loader.LoadAll(ctx)).Chart(id)
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrUnknownChart, in.Section, id)
	}
	if err := chart.Render(w, c); err != nil {
		s.metrics.ChartRenderErrors.Inc()
		s.logger.Error("chart render failed", "section", in.Section, "chart", id, "error", err)
		return err
	}
	return nil
}

// Export writes a dataset in the given format. Exports are never filtered.
func (s *Service) Export(ctx context.Context, w io.Writer, name domain.Name, format string) error {
	d := s.loader.Load(ctx, name)
	if !d.Present() {
		return fmt.Errorf("%w: %s: %s", ErrUnavailable, name, d.Reason)
	}

	var err error
	switch format {
	case view.FormatCSV:
		err = export.WriteCSV(w, d.Table)
	case view.FormatXLSX:
		err = export.WriteXLSX(w, d.Table)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", name, err)
	}
	s.metrics.Exports.WithLabelValues(string(name), format).Inc()
	return nil
}

// Reload drops every cached dataset so the next request reads fresh artifacts.
func (s *Service) Reload() {
	s.loader.Invalidate()
	s.logger.Info("datasets reloaded")
}

// CheckReadiness reports whether the datasets have been warmed up.
func (s *Service) CheckReadiness(ctx context.Context) error {
	return s.loader.CheckReadiness(ctx)
}
