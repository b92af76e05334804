package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/pkordes/trails/internal/metrics"
	"github.com/pkordes/trails/internal/middleware"
)

// TestMetricsHandler_labelsByRoute verifies that requests are counted per
// route pattern and status, not per raw path.
func TestMetricsHandler_labelsByRoute(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(middleware.NewMetricsHandler(m))
	r.Get("/api/trails/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/trails/"+id, nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/trails/{id}", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RequestsInFlight))
}

// TestMetricsHandler_outsideRouter verifies the fallback label when no chi
// route matched.
func TestMetricsHandler_outsideRouter(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	h := middleware.NewMetricsHandler(m)(trivialHandler)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/whatever", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "200")))
}
