package http

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the instrumentation for the generation endpoint.
type metrics struct {
	generations    *prometheus.CounterVec
	duration       prometheus.Histogram
	exportFailures *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flacon",
			Name:      "generations_total",
			Help:      "Generation requests by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flacon",
			Name:      "generation_duration_seconds",
			Help:      "Wall time of one generation request.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		exportFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flacon",
			Name:      "export_failures_total",
			Help:      "Export failures by format.",
		}, []string{"format"}),
	}
	reg.MustRegister(m.generations, m.duration, m.exportFailures)
	return m
}

// observe records the per-format failures of one successful generation.
func (m *metrics) observe(step, stl, brep bool) {
	if !step {
		m.exportFailures.WithLabelValues("step").Inc()
	}
	if !stl {
		m.exportFailures.WithLabelValues("stl").Inc()
	}
	if !brep {
		m.exportFailures.WithLabelValues("brep").Inc()
	}
}
