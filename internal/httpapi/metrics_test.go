package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddleware_CountsByStatus(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fail") != "" {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})
	h := MetricsMiddleware(next)

	ok := httpRequestsTotal.WithLabelValues("/metrics-test", http.MethodGet, "200")
	bad := httpRequestsTotal.WithLabelValues("/metrics-test", http.MethodGet, "502")
	okBefore, badBefore := testutil.ToFloat64(ok), testutil.ToFloat64(bad)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics-test", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics-test?fail=1", nil))

	if got := testutil.ToFloat64(ok) - okBefore; got != 1 {
		t.Fatalf("200 counter delta=%v", got)
	}
	if got := testutil.ToFloat64(bad) - badBefore; got != 1 {
		t.Fatalf("502 counter delta=%v", got)
	}
	if v := testutil.ToFloat64(httpInflight); v != 0 {
		t.Fatalf("inflight gauge not released: %v", v)
	}
}

func TestMetricsMiddleware_ImplicitOK(t *testing.T) {
	// Handlers that never call WriteHeader still count as 200.
	h := MetricsMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	c := httpRequestsTotal.WithLabelValues("/silent", http.MethodPost, "200")
	before := testutil.ToFloat64(c)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/silent", nil))
	if testutil.ToFloat64(c)-before != 1 {
		t.Fatal("expected implicit 200 to be counted")
	}
	if n := testutil.CollectAndCount(httpResponseBytes, "diagramd_http_response_size_bytes"); n == 0 {
		t.Fatal("response size not observed")
	}
	if !strings.HasPrefix(routePatternOrPath(httptest.NewRequest(http.MethodGet, "/x/y", nil)), "/x") {
		t.Fatal("raw path fallback expected without a chi context")
	}
}
