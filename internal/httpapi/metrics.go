package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "diagramd"

var routeLabels = []string{"route", "method", "status"}

var (
	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace, Subsystem: "http",
		Name: "requests_total",
		Help: "HTTP requests by route pattern, method and status",
	}, routeLabels)

	// Generation waits on a model, so the buckets reach past a minute.
	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace, Subsystem: "http",
		Name:    "request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, routeLabels)

	httpResponseBytes = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace, Subsystem: "http",
		Name:    "response_size_bytes",
		Help:    "Response body size",
		Buckets: prometheus.ExponentialBuckets(256, 4, 8),
	}, []string{"route"})

	httpInflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace, Subsystem: "http",
		Name: "inflight_requests",
		Help: "Requests currently being served",
	})

	renderedBytesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace, Subsystem: "http",
		Name: "rendered_bytes_total",
		Help: "Diagram bytes streamed to clients by format",
	}, []string{"format"})
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, httpResponseBytes, httpInflight, renderedBytesTotal)
}

// MetricsMiddleware records request counts, latency and response size. Labels
// use the chi route pattern, which is only set once routing has run.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpInflight.Inc()
		defer httpInflight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePatternOrPath(r)
		labels := prometheus.Labels{"route": route, "method": r.Method, "status": strconv.Itoa(status)}
		httpRequestsTotal.With(labels).Inc()
		httpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
		httpResponseBytes.WithLabelValues(route).Observe(float64(ww.BytesWritten()))
	})
}

// routePatternOrPath keeps label cardinality bounded by preferring the route
// pattern over the raw path.
func routePatternOrPath(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
