package observability

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records database query latency by statement verb.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trellis_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// CacheHits counts cache-aside hits by key prefix.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trellis_cache_hits_total",
		Help: "Total number of cache hits by key prefix",
	}, []string{"prefix"})

	// CacheMisses counts cache-aside misses by key prefix.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trellis_cache_misses_total",
		Help: "Total number of cache misses by key prefix",
	}, []string{"prefix"})
)

// ObserveQuery records the latency of a database statement. The operation
// label is derived from the statement's leading verb (select, insert, ...).
func ObserveQuery(sql string, elapsed time.Duration) {
	op := "other"
	if fields := strings.Fields(sql); len(fields) > 0 {
		op = strings.ToLower(fields[0])
	}
	DatabaseQueryLatency.WithLabelValues(op).Observe(elapsed.Seconds())
}

// RecordCacheHit increments the hit counter for a cache key.
func RecordCacheHit(key string) {
	CacheHits.WithLabelValues(keyPrefix(key)).Inc()
}

// RecordCacheMiss increments the miss counter for a cache key.
func RecordCacheMiss(key string) {
	CacheMisses.WithLabelValues(keyPrefix(key)).Inc()
}

// keyPrefix reduces "beds:42" to "beds" so the label cardinality stays
// bounded by the number of cached collections, not users.
func keyPrefix(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
