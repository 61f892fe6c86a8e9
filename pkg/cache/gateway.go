package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Gateway handles caching operations with a Redis backend.
//
// Reads degrade rather than fail: when the backend is unreachable, Exists
// reports false and Get reports nil, so callers fall back to fetching
// fresh data. Writes return errors and are expected to be treated as
// best-effort by callers.
type Gateway struct {
	redis  *redis.Client
	logger zerolog.Logger
}

// NewGateway creates a cache gateway with a Redis backend.
func NewGateway(redisClient *redis.Client, logger zerolog.Logger) *Gateway {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &Gateway{
		redis:  redisClient,
		logger: logger,
	}
}

// Exists reports whether the key holds an unexpired entry. Expired keys
// are gone from Redis, so absent and expired are indistinguishable here.
// Backend errors read as absence.
func (g *Gateway) Exists(ctx context.Context, key string) bool {
	n, err := g.redis.Exists(ctx, key).Result()
	if err != nil {
		CacheErrors.WithLabelValues("exists").Inc()
		DegradedReads.Inc()
		g.logger.Warn().
			Err(err).
			Str("cache_key", key).
			Msg("cache backend unavailable, serving fresh data")
		return false
	}
	return n > 0
}

// Get retrieves the raw entry stored at key. Returns nil when the key is
// absent or the backend is unavailable.
func (g *Gateway) Get(ctx context.Context, key string) []byte {
	data, err := g.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			CacheMisses.Inc()
			return nil
		}
		CacheErrors.WithLabelValues("get").Inc()
		DegradedReads.Inc()
		g.logger.Warn().
			Err(err).
			Str("cache_key", key).
			Msg("cache backend unavailable, serving fresh data")
		return nil
	}

	CacheHits.Inc()
	return data
}

// Set stores raw data at key without an expiry. Callers that want the
// entry to age out follow up with Expire.
func (g *Gateway) Set(ctx context.Context, key string, data []byte) error {
	if err := g.redis.Set(ctx, key, data, 0).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	CacheWrites.Inc()
	CacheSize.Add(float64(len(data)))
	return nil
}

// Expire sets the TTL on an existing key. After the TTL passes, Redis
// removes the key and reads report a miss.
func (g *Gateway) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := g.redis.Expire(ctx, key, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("expire").Inc()
		return fmt.Errorf("redis expire: %w", err)
	}
	return nil
}

// Delete removes a cache entry.
func (g *Gateway) Delete(ctx context.Context, key string) error {
	if err := g.redis.Del(ctx, key).Err(); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Ping checks backend connectivity. Used by readiness reporting at
// startup; a failure is not fatal because reads degrade to fresh fetches.
func (g *Gateway) Ping(ctx context.Context) error {
	if err := g.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
