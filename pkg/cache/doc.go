// Package cache provides viewer-collection caching with a Redis backend.
//
// The gateway implements the read-through cache in front of the community
// API with the following behavior:
//
// - One entry per broadcast channel, keyed viewer-{channelID}
// - TTL-based expiry handled by Redis (absent and expired look the same)
// - Degraded reads: a down backend reads as a miss, never as an error
// - Best-effort writes: a failed write costs freshness, not correctness
// - Prometheus metrics for observability
//
// # Basic Usage
//
//	// Create Redis client
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	// Create cache gateway
//	gateway := cache.NewGateway(redisClient, logger)
//
//	// Check for a cached collection
//	key := cache.Key("123456789")
//	if gateway.Exists(ctx, key) {
//		data := gateway.Get(ctx, key)
//		// data may still be nil if the entry vanished in between
//	}
//
//	// Store a fresh collection, then age it out
//	if err := gateway.Set(ctx, key, data); err == nil {
//		_ = gateway.Expire(ctx, key, 5*time.Minute)
//	}
//
// # Metrics
//
// The cache gateway exports Prometheus metrics:
//
//   - viewer_cache_hits_total - Cache hits
//   - viewer_cache_misses_total - Cache misses
//   - viewer_cache_writes_total - Successful writes
//   - viewer_cache_written_bytes_total - Bytes written
//   - viewer_cache_degraded_reads_total - Reads served fresh due to backend trouble
//   - viewer_cache_errors_total{operation} - Cache operation errors
package cache
