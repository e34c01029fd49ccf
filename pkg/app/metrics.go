package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kakapo-ui/kakapo/pkg/view"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "kakapo").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "kakapo",
		// Renders are expected well under a frame.
		Buckets:  []float64{.0001, .0005, .001, .0025, .005, .01, .016, .025, .05, .1},
		Registry: prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors for windows. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	rendersTotal    *prometheus.CounterVec
	renderDuration  *prometheus.HistogramVec
	patchesTotal    *prometheus.CounterVec
	pressesTotal    *prometheus.CounterVec
	rendererErrors  *prometheus.CounterVec
	fatalErrors     *prometheus.CounterVec
	retainedWidgets *prometheus.GaugeVec
}

// NewMetrics registers the collectors. Registering twice against the same
// registry panics, as with any promauto collector.
//
// Metrics collected:
//   - kakapo_renders_total: render passes by window
//   - kakapo_render_duration_seconds: view + diff duration
//   - kakapo_patches_total: patches by window and op
//   - kakapo_presses_total: press dispatches by window and status
//   - kakapo_renderer_errors_total: failed commits by window and renderer
//   - kakapo_fatal_errors_total: contract violations by window and code
//   - kakapo_retained_widgets: widgets in each window's committed tree
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of render passes",
			ConstLabels: config.ConstLabels,
		}, []string{"window"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "View and diff duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"window"}),

		patchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_total",
			Help:        "Total number of patches committed",
			ConstLabels: config.ConstLabels,
		}, []string{"window", "op"}),

		pressesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "presses_total",
			Help:        "Total number of press events dispatched",
			ConstLabels: config.ConstLabels,
		}, []string{"window", "status"}),

		rendererErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renderer_errors_total",
			Help:        "Total number of failed renderer commits",
			ConstLabels: config.ConstLabels,
		}, []string{"window", "renderer"}),

		fatalErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "fatal_errors_total",
			Help:        "Total number of contract violations that stopped a window",
			ConstLabels: config.ConstLabels,
		}, []string{"window", "code"}),

		retainedWidgets: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "retained_widgets",
			Help:        "Number of widgets in the committed tree",
			ConstLabels: config.ConstLabels,
		}, []string{"window"}),
	}
}

func (m *Metrics) recordRender(window string, d time.Duration, tree *view.WidgetTree) {
	if m == nil {
		return
	}
	m.rendersTotal.WithLabelValues(window).Inc()
	m.renderDuration.WithLabelValues(window).Observe(d.Seconds())
	for op, n := range tree.OpCounts() {
		m.patchesTotal.WithLabelValues(window, op.String()).Add(float64(n))
	}
	m.retainedWidgets.WithLabelValues(window).Set(float64(tree.Len()))
}

func (m *Metrics) recordPress(window, status string) {
	if m == nil {
		return
	}
	m.pressesTotal.WithLabelValues(window, status).Inc()
}

func (m *Metrics) recordRendererError(window, renderer string) {
	if m == nil {
		return
	}
	m.rendererErrors.WithLabelValues(window, renderer).Inc()
}

func (m *Metrics) recordFatal(window, code string) {
	if m == nil {
		return
	}
	m.fatalErrors.WithLabelValues(window, code).Inc()
}
