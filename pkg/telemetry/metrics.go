package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/connect/pkg/connect"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "connect").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for dispatch duration.
	// Default: prometheus.DefBuckets
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
		Namespace: "connect",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records connector and store activity. It implements
// connect.Observer.
//
// Metrics collected:
//   - connect_renders_total: wrapper renders by component and outcome
//     ("rendered" or "reused")
//   - connect_recomputations_total: props group recomputations by component,
//     group and result ("changed" or "unchanged")
//   - connect_subscriptions: live store subscriptions by component
//   - connect_reloads_total: generation reloads picked up by instances
//   - connect_dispatches_total: dispatched actions by type
//   - connect_dispatch_duration_seconds: time spent in Dispatch, listeners
//     included
type Metrics struct {
	renders          *prometheus.CounterVec
	recomputations   *prometheus.CounterVec
	subscriptions    *prometheus.GaugeVec
	reloads          *prometheus.CounterVec
	dispatches       *prometheus.CounterVec
	dispatchDuration prometheus.Histogram
}

var _ connect.Observer = (*Metrics)(nil)

// NewMetrics creates and registers the metrics. Registering twice on the
// same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of connected component renders",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "outcome"}),

		recomputations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "recomputations_total",
			Help:        "Total number of derived props recomputations",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "group", "result"}),

		subscriptions: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "subscriptions",
			Help:        "Number of live store subscriptions",
			ConstLabels: config.ConstLabels,
		}, []string{"component"}),

		reloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reloads_total",
			Help:        "Total number of generation reloads picked up by instances",
			ConstLabels: config.ConstLabels,
		}, []string{"component"}),

		dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatches_total",
			Help:        "Total number of dispatched actions",
			ConstLabels: config.ConstLabels,
		}, []string{"action"}),

		dispatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_duration_seconds",
			Help:        "Dispatch duration in seconds, listeners included",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// Rendered implements connect.Observer.
func (m *Metrics) Rendered(component string, reused bool) {
	outcome := "rendered"
	if reused {
		outcome = "reused"
	}
	m.renders.WithLabelValues(component, outcome).Inc()
}

// Recomputed implements connect.Observer.
func (m *Metrics) Recomputed(component string, group connect.Group, changed bool) {
	result := "unchanged"
	if changed {
		result = "changed"
	}
	m.recomputations.WithLabelValues(component, string(group), result).Inc()
}

// Subscribed implements connect.Observer.
func (m *Metrics) Subscribed(component string) {
	m.subscriptions.WithLabelValues(component).Inc()
}

// Unsubscribed implements connect.Observer.
func (m *Metrics) Unsubscribed(component string) {
	m.subscriptions.WithLabelValues(component).Dec()
}

// Reloaded implements connect.Observer.
func (m *Metrics) Reloaded(component string, _ uint64) {
	m.reloads.WithLabelValues(component).Inc()
}

// RecordDispatch records one dispatch of actionType.
func (m *Metrics) RecordDispatch(actionType string, d time.Duration) {
	m.dispatches.WithLabelValues(actionType).Inc()
	m.dispatchDuration.Observe(d.Seconds())
}
