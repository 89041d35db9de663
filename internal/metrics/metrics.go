package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the service
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   prometheus.CounterVec
	HTTPRequestDuration prometheus.HistogramVec

	// Feed metrics
	FeedGenerationTime prometheus.HistogramVec
	FeedCandidatePosts prometheus.HistogramVec

	// Trending-tag cache metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// Error metrics
	ErrorsTotal prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Get returns the metrics singleton, registering all collectors on first use
func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),
			FeedGenerationTime: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "feed_generation_seconds",
					Help:    "Time to build the aggregated feed",
					Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"outcome"},
			),
			FeedCandidatePosts: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "feed_candidate_posts",
					Help:    "Pre-dedup candidate set sizes per category",
					Buckets: prometheus.ExponentialBuckets(1, 2, 10),
				},
				[]string{"category"},
			),
			CacheHitsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_hits_total",
					Help: "Cache hits by cache name",
				},
				[]string{"cache"},
			),
			CacheMissesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_misses_total",
					Help: "Cache misses by cache name",
				},
				[]string{"cache"},
			),
			ErrorsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "errors_total",
					Help: "Errors by type and endpoint",
				},
				[]string{"type", "endpoint"},
			),
		}
	})
	return instance
}

// RecordFeedGeneration observes one feed build
func RecordFeedGeneration(outcome string, seconds float64) {
	Get().FeedGenerationTime.WithLabelValues(outcome).Observe(seconds)
}

// RecordFeedCandidates observes one category's pre-dedup candidate count
func RecordFeedCandidates(category string, count int) {
	Get().FeedCandidatePosts.WithLabelValues(category).Observe(float64(count))
}

// RecordCacheHit increments the hit counter for a named cache
func RecordCacheHit(cache string) {
	Get().CacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss increments the miss counter for a named cache
func RecordCacheMiss(cache string) {
	Get().CacheMissesTotal.WithLabelValues(cache).Inc()
}
