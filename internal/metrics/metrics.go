// Package metrics holds the Prometheus collectors shared by the cache,
// the TMDB client, the catalog and the HTTP server.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheLookups counts cache reads by backend and result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tmdbstash_cache_lookups_total",
			Help: "Total number of cache lookups by result",
		},
		[]string{"backend", "result"},
	)

	// UpstreamRequests counts requests sent to TMDB by HTTP status class.
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tmdbstash_upstream_requests_total",
			Help: "Total number of TMDB API requests",
		},
		[]string{"status"},
	)

	UpstreamDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tmdbstash_upstream_request_duration_seconds",
			Help:    "Duration of TMDB API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// AggregateFailures counts allow-listed shows dropped from a result.
	AggregateFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tmdbstash_aggregate_failures_total",
			Help: "Total number of per-show failures swallowed during aggregation",
		},
		[]string{"kind"},
	)

	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tmdbstash_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "path", "status"},
	)

	APIDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tmdbstash_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// RecordCacheLookup records one cache read.
func RecordCacheLookup(backend, result string) {
	CacheLookups.WithLabelValues(backend, result).Inc()
}

// RecordUpstreamRequest records one TMDB request. A zero status means no
// response was received.
func RecordUpstreamRequest(status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status/100) + "xx"
	}
	UpstreamRequests.WithLabelValues(label).Inc()
	UpstreamDuration.Observe(duration.Seconds())
}

// RecordAggregateFailure records a show dropped while aggregating kind.
func RecordAggregateFailure(kind string) {
	AggregateFailures.WithLabelValues(kind).Inc()
}

// RecordAPIRequest records one served HTTP request.
func RecordAPIRequest(method, path string, status int, duration time.Duration) {
	APIRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	APIDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
