// Package middleware provides HTTP middleware for the routes served next
// to /metrics.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/metrics"
)

// Metrics returns middleware that records request count and latency by
// route pattern.
func Metrics(m *metrics.Metrics, pattern string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			m.HTTPRequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(sw.status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
		})
	}
}

// Instrument wraps every route with Metrics.
func Instrument(m *metrics.Metrics, routes ...metrics.Route) []metrics.Route {
	out := make([]metrics.Route, len(routes))
	for i, r := range routes {
		out[i] = metrics.Route{
			Pattern: r.Pattern,
			Handler: Metrics(m, r.Pattern)(r.Handler),
		}
	}
	return out
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (sw *statusWriter) WriteHeader(code int) {
	if !sw.wroteHeader {
		sw.status = code
		sw.wroteHeader = true
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if !sw.wroteHeader {
		sw.wroteHeader = true
	}
	return sw.ResponseWriter.Write(b)
}
