package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viewer_cache_hits_total",
			Help: "Total number of viewer cache hits",
		},
	)

	// CacheMisses tracks cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viewer_cache_misses_total",
			Help: "Total number of viewer cache misses",
		},
	)

	// CacheWrites tracks successful cache writes
	CacheWrites = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viewer_cache_writes_total",
			Help: "Total number of viewer cache writes",
		},
	)

	// CacheSize tracks bytes written to the cache
	CacheSize = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viewer_cache_written_bytes_total",
			Help: "Total bytes written to the viewer cache",
		},
	)

	// DegradedReads tracks reads served fresh because the backend was down
	DegradedReads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viewer_cache_degraded_reads_total",
			Help: "Reads that fell back to fresh data because the cache backend was unavailable",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewer_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "exists", "get", "set", "expire", "delete"
	)
)
