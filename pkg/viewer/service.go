package viewer

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/sc2stream/ladderviewer/pkg/bnet"
	"github.com/sc2stream/ladderviewer/pkg/cache"
)

// Service serves channel viewer collections through the read-through
// cache.
type Service struct {
	cache      Cache
	aggregator *Aggregator
	logger     zerolog.Logger
}

// NewService creates a Service.
func NewService(c Cache, aggregator *Aggregator, logger zerolog.Logger) *Service {
	return &Service{
		cache:      c,
		aggregator: aggregator,
		logger:     logger,
	}
}

// GetData returns the viewer collection for a channel. A cached entry is
// decoded and returned without any upstream traffic; otherwise the batch
// is assembled fresh and cached for the next request. An entry that no
// longer decodes counts as a miss.
func (s *Service) GetData(ctx context.Context, channelID string, profiles []bnet.PlayerProfile) []ProfileResult {
	key := cache.Key(channelID)

	if s.cache.Exists(ctx, key) {
		if data := s.cache.Get(ctx, key); data != nil {
			var env envelope
			if err := json.Unmarshal(data, &env); err == nil {
				requestsTotal.WithLabelValues("cache").Inc()
				s.logger.Debug().
					Str("channel_id", channelID).
					Str("cache_key", key).
					Msg("serving cached viewer data")
				return env.Profiles
			}

			s.logger.Warn().
				Str("channel_id", channelID).
				Str("cache_key", key).
				Msg("cached viewer data undecodable, assembling fresh")
		}
	}

	requestsTotal.WithLabelValues("fresh").Inc()
	s.logger.Debug().
		Str("channel_id", channelID).
		Int("profiles", len(profiles)).
		Msg("assembling fresh viewer data")

	return s.aggregator.AssembleAll(ctx, profiles, key)
}
