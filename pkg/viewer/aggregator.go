package viewer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sc2stream/ladderviewer/pkg/bnet"
)

// Cache is the slice of the cache gateway the viewer path needs. Reads
// never fail: a down backend reads as a miss.
type Cache interface {
	Exists(ctx context.Context, key string) bool
	Get(ctx context.Context, key string) []byte
	Set(ctx context.Context, key string, data []byte) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// Aggregator assembles a channel's full profile batch concurrently and
// caches the outcome.
type Aggregator struct {
	assembler *Assembler
	cache     Cache
	ttl       time.Duration
	limit     int
	logger    zerolog.Logger
}

// NewAggregator creates an Aggregator. ttl is the cache lifetime of an
// assembled collection; maxInFlight bounds how many profiles assemble
// concurrently (values below 1 mean unbounded).
func NewAggregator(assembler *Assembler, cache Cache, ttl time.Duration, maxInFlight int, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		assembler: assembler,
		cache:     cache,
		ttl:       ttl,
		limit:     maxInFlight,
		logger:    logger,
	}
}

// AssembleAll builds the collection for every configured profile of a
// channel. Results keep the order of the input: a profile whose assembly
// fails occupies its slot as a failure marker rather than shifting the
// rest. The finished collection is written to the cache best-effort; a
// failed write costs the next request freshness, never this response.
func (a *Aggregator) AssembleAll(ctx context.Context, profiles []bnet.PlayerProfile, cacheKey string) []ProfileResult {
	start := time.Now()
	results := make([]ProfileResult, len(profiles))

	var g errgroup.Group
	if a.limit > 0 {
		g.SetLimit(a.limit)
	}

	for i, p := range profiles {
		g.Go(func() error {
			payload, err := a.assembler.Assemble(ctx, p, i)
			if err != nil {
				assembliesTotal.WithLabelValues("failed").Inc()
				a.logger.Warn().
					Err(err).
					Int("slot", i).
					Str("profile_id", p.ProfileID).
					Int("region_id", p.RegionID).
					Msg("profile assembly failed")
				results[i] = ProfileResult{Error: err.Error()}
				return nil
			}

			assembliesTotal.WithLabelValues("ok").Inc()
			results[i] = ProfileResult{Viewer: payload}
			return nil
		})
	}

	// Workers never return errors; failures live in their slots.
	_ = g.Wait()

	batchDuration.Observe(time.Since(start).Seconds())
	a.writeCache(ctx, cacheKey, results)

	return results
}

// writeCache stores the collection and ages it out after the TTL. All
// failures are logged and swallowed.
func (a *Aggregator) writeCache(ctx context.Context, key string, results []ProfileResult) {
	data, err := json.Marshal(envelope{Profiles: results})
	if err != nil {
		a.logger.Warn().
			Err(err).
			Str("cache_key", key).
			Msg("cache write dropped, encode failed")
		return
	}

	if err := a.cache.Set(ctx, key, data); err != nil {
		a.logger.Warn().
			Err(err).
			Str("cache_key", key).
			Msg("cache write dropped")
		return
	}

	if err := a.cache.Expire(ctx, key, a.ttl); err != nil {
		a.logger.Warn().
			Err(err).
			Str("cache_key", key).
			Dur("ttl", a.ttl).
			Msg("cache expiry not set")
	}
}
