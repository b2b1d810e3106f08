package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"favorite-feed/internal/handler/http/pathutil"
	"favorite-feed/internal/handler/http/responsewriter"
	"favorite-feed/internal/observability/metrics"
	"favorite-feed/internal/observability/slo"
)

// Metrics records request count, latency and sizes per route. It must sit
// directly outside the ServeMux so the matched pattern is visible once the
// handler returns. tracker may be nil.
func Metrics(tracker *slo.Tracker) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			metrics.ActiveConnections.Inc()
			defer metrics.ActiveConnections.Dec()

			rw := responsewriter.Wrap(w)
			start := time.Now()
			next.ServeHTTP(rw, r)

			metrics.RecordHTTPRequest(
				r.Method,
				pathutil.RouteLabel(r),
				strconv.Itoa(rw.StatusCode()),
				time.Since(start),
				int(max(r.ContentLength, 0)),
				rw.BytesWritten(),
			)
			if tracker != nil {
				tracker.Observe(rw.StatusCode())
			}
		})
	}
}

// MetricsHandler serves the default Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
