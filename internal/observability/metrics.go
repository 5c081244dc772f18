package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	// Dataset loading metrics.
	DatasetLoads       *prometheus.CounterVec // labels: dataset, outcome={loaded,absent,malformed}
	CacheLookups       *prometheus.CounterVec // labels: result={hit,miss}
	CacheInvalidations prometheus.Counter
	DatasetsAvailable  prometheus.Gauge

	// Rendering metrics.
	ViewRenders        *prometheus.CounterVec   // labels: section
	ViewRenderDuration *prometheus.HistogramVec // labels: section
	ChartRenderErrors  prometheus.Counter

	Exports *prometheus.CounterVec // labels: dataset, format={csv,xlsx}
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := NewMetricsForTesting()

	prometheus.MustRegister(
		m.DatasetLoads,
		m.CacheLookups,
		m.CacheInvalidations,
		m.DatasetsAvailable,
		m.ViewRenders,
		m.ViewRenderDuration,
		m.ChartRenderErrors,
		m.Exports,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "typhoon_dashboard",
			Name:      "dataset_loads_total",
			Help:      "Dataset load attempts by dataset and outcome.",
		}, []string{"dataset", "outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "typhoon_dashboard",
			Name:      "cache_lookups_total",
			Help:      "Dataset cache lookups by result.",
		}, []string{"result"}),
		CacheInvalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "typhoon_dashboard",
			Name:      "cache_invalidations_total",
			Help:      "Total dataset cache invalidations.",
		}),
		DatasetsAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "typhoon_dashboard",
			Name:      "datasets_available",
			Help:      "Number of datasets currently loaded (not absent).",
		}),
		ViewRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "typhoon_dashboard",
			Name:      "view_renders_total",
			Help:      "Rendered pages by section.",
		}, []string{"section"}),
		ViewRenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "typhoon_dashboard",
			Name:      "view_render_duration_seconds",
			Help:      "Duration of a page render from cached tables.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"section"}),
		ChartRenderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "typhoon_dashboard",
			Name:      "chart_render_errors_total",
			Help:      "Total chart SVG rendering failures.",
		}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "typhoon_dashboard",
			Name:      "exports_total",
			Help:      "Table downloads by dataset and format.",
		}, []string{"dataset", "format"}),
	}
}
