package render

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	renderResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "diagramd",
			Subsystem: "render",
			Name:      "results_total",
			Help:      "Render requests by renderer, format and outcome",
		},
		[]string{"renderer", "format", "outcome"},
	)

	renderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "diagramd",
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "Round trip to the rendering server",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"renderer"},
	)
)

func init() {
	prometheus.MustRegister(renderResultsTotal, renderDuration)
}

func observe(renderer string, f Format, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	renderResultsTotal.WithLabelValues(renderer, string(f), outcome).Inc()
	renderDuration.WithLabelValues(renderer).Observe(time.Since(start).Seconds())
}
