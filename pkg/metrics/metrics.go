package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Loader names used as label values
const (
	LoaderClassifier = "classifier"
	LoaderStatic     = "static"
)

// Load status label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics holds the Prometheus metrics of the connector auth loaders
type Metrics struct {
	LoadsTotal   *prometheus.CounterVec
	LoadDuration *prometheus.HistogramVec
	// EntriesTotal counts classified entries per auth kind. A growing
	// no_key count is usually a misconfigured auth file.
	EntriesTotal *prometheus.CounterVec
	LoadErrors   *prometheus.CounterVec
}

// Config holds configuration for metrics
type Config struct {
	// Namespace for metrics (default: "connector_auth")
	Namespace string

	// Subsystem for metrics (default: "")
	Subsystem string

	// Registry to use (default: prometheus.DefaultRegisterer)
	Registry prometheus.Registerer
}

// DefaultConfig returns default metrics configuration
func DefaultConfig() Config {
	return Config{
		Namespace: "connector_auth",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(config Config) *Metrics {
	if config.Namespace == "" {
		config.Namespace = "connector_auth"
	}
	if config.Registry == nil {
		config.Registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		LoadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: config.Namespace,
				Subsystem: config.Subsystem,
				Name:      "loads_total",
				Help:      "Total number of connector authentication loads",
			},
			[]string{"loader", "status"},
		),

		LoadDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: config.Namespace,
				Subsystem: config.Subsystem,
				Name:      "load_duration_seconds",
				Help:      "Connector authentication load duration in seconds",
				Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"loader"},
		),

		EntriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: config.Namespace,
				Subsystem: config.Subsystem,
				Name:      "entries_total",
				Help:      "Total number of classified connector entries by auth kind",
			},
			[]string{"kind"},
		),

		LoadErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: config.Namespace,
				Subsystem: config.Subsystem,
				Name:      "load_errors_total",
				Help:      "Total number of failed loads by error code",
			},
			[]string{"loader", "code"},
		),
	}
}

// RecordLoad records a finished load and its duration
func (m *Metrics) RecordLoad(loader, status string, duration time.Duration) {
	m.LoadsTotal.WithLabelValues(loader, status).Inc()
	m.LoadDuration.WithLabelValues(loader).Observe(duration.Seconds())
}

// RecordEntry records one classified entry
func (m *Metrics) RecordEntry(kind string) {
	m.EntriesTotal.WithLabelValues(kind).Inc()
}

// RecordLoadError records a failed load by error code
func (m *Metrics) RecordLoadError(loader, code string) {
	m.LoadErrors.WithLabelValues(loader, code).Inc()
}

// Timer is a helper for timing operations
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration returns the duration since the timer was created
func (t *Timer) ObserveDuration() time.Duration {
	return time.Since(t.start)
}
