package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/coursekit/playground/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// MetricsMiddleware records request counts and latencies per route pattern.
// Unmatched requests are grouped under "unmatched" to bound label cardinality.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := newStatusRecorder(w)

		next.ServeHTTP(ww, r)

		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				endpoint = pattern
			}
		}
		metrics.RequestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(ww.status)).Inc()
		metrics.RequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}
