package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/MKhiriev/go-zakat-keeper/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// withMetrics records request count, latency and in-flight requests. Routes
// are labeled by their chi pattern so path parameters do not explode the
// label set.
func withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		mw := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(mw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(mw.statusCode())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
