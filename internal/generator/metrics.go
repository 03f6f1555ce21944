package generator

import "github.com/prometheus/client_golang/prometheus"

var (
	generateResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "diagramd",
			Subsystem: "generate",
			Name:      "results_total",
			Help:      "Generation results by backend and source (model or fallback)",
		},
		[]string{"backend", "source"},
	)

	generateFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "diagramd",
			Subsystem: "generate",
			Name:      "fallbacks_total",
			Help:      "Fallback diagrams served, by cause kind",
		},
		[]string{"kind"},
	)

	generateDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "diagramd",
			Subsystem: "generate",
			Name:      "duration_seconds",
			Help:      "Backend call duration including model load",
			Buckets:   []float64{0.05, 0.25, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"backend", "source"},
	)
)

func init() {
	prometheus.MustRegister(generateResultsTotal, generateFallbacksTotal, generateDuration)
}

func observe(backend string, r Result) {
	src := string(r.Source)
	generateResultsTotal.WithLabelValues(backend, src).Inc()
	generateDuration.WithLabelValues(backend, src).Observe(r.Duration.Seconds())
	if r.Fallback() {
		generateFallbacksTotal.WithLabelValues(Kind(r.Cause)).Inc()
	}
}
