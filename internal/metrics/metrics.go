package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcomes used as the "outcome" label.
const (
	OutcomeSucceeded        = "succeeded"
	OutcomeEmptyInput       = "empty_input"
	OutcomeApplicationError = "application_error"
	OutcomeTransportError   = "transport_error"
	OutcomeSuperseded       = "superseded"
)

// Metrics holds the widget's Prometheus instruments.
type Metrics struct {
	lookups  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	mounted  prometheus.Gauge
}

// New registers the widget metrics with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_widget_lookups_total",
			Help: "Total lookup cycles by outcome",
		}, []string{"outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "weather_widget_lookup_duration_seconds",
			Help:    "Time from trigger to terminal state",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		mounted: factory.NewGauge(prometheus.GaugeOpts{
			Name: "weather_widget_mounted",
			Help: "Widgets currently mounted",
		}),
	}
}

// ObserveLookup records one finished lookup cycle.
func (m *Metrics) ObserveLookup(outcome string, elapsed time.Duration) {
	m.lookups.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// SetMounted publishes the number of mounted widgets.
func (m *Metrics) SetMounted(n int) {
	m.mounted.Set(float64(n))
}
