package serve

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics instruments the compute surface with its own registry so that two
// servers in one process do not collide.
type Metrics struct {
	registry *prometheus.Registry

	Rounds        prometheus.Counter
	RoundDuration prometheus.Histogram
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gompi",
			Subsystem: "serve",
			Name:      "rounds_total",
			Help:      "Completed compute rounds.",
		}),
		RoundDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gompi",
			Subsystem: "serve",
			Name:      "round_duration_seconds",
			Help:      "Wall-clock duration of one compute round.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.Rounds, m.RoundDuration)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
