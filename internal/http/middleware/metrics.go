// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file exposes Prometheus instrumentation for HTTP traffic with bounded
// label cardinality:
//
//   - method: HTTP method verb
//   - path:   the registered Gin route (e.g. /api/history/:id); unmatched
//     requests are folded into "unmatched"
//   - status: numeric status code as a string
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// unmatchedPath labels requests that hit no route.
const unmatchedPath = "unmatched"

var (
	httpReqs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spamzero_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// Status is left out to keep the histogram small.
	httpLat = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spamzero_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpInflight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spamzero_http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	httpRespSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "spamzero_http_response_size_bytes",
			Help: "Size of HTTP responses in bytes.",
			// History listings can grow large; top bucket is 5 MiB.
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
		[]string{"method", "path"},
	)
)

// Metrics returns a Gin middleware that instruments requests with Prometheus.
//
//	r.Use(middleware.Metrics())
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = unmatchedPath
		}
		method := c.Request.Method

		httpReqs.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpLat.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		// Size is -1 when nothing was written.
		if size := c.Writer.Size(); size >= 0 {
			httpRespSize.WithLabelValues(method, path).Observe(float64(size))
		}
	}
}
