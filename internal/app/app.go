// Package app wires the service together and runs it under the fx
// lifecycle.
package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/sc2stream/ladderviewer/internal/config"
	"github.com/sc2stream/ladderviewer/internal/httpapi"
	"github.com/sc2stream/ladderviewer/internal/store"
	"github.com/sc2stream/ladderviewer/pkg/bnet"
	"github.com/sc2stream/ladderviewer/pkg/cache"
	"github.com/sc2stream/ladderviewer/pkg/logging"
	"github.com/sc2stream/ladderviewer/pkg/pacing"
	"github.com/sc2stream/ladderviewer/pkg/viewer"
)

// Module provides every service component.
var Module = fx.Options(
	fx.Provide(
		config.Load,
		NewLogger,
		NewRedis,
		NewCacheGateway,
		NewStore,
		NewBnetClient,
		NewPacer,
		NewAssembler,
		NewAggregator,
		NewViewerService,
		NewHandler,
	),
)

// NewLogger configures the global logger from config.
func NewLogger(cfg *config.Config) zerolog.Logger {
	return logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
	})
}

// NewRedis creates the Redis client backing the viewer cache.
func NewRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
}

// NewCacheGateway creates the viewer cache gateway.
func NewCacheGateway(rdb *redis.Client, logger zerolog.Logger) *cache.Gateway {
	return cache.NewGateway(rdb, logger.With().Str("component", "cache").Logger())
}

// NewStore opens the channel configuration store.
func NewStore(cfg *config.Config, logger zerolog.Logger) (*store.Store, error) {
	return store.Open(cfg.DBPath, cfg.MaxProfiles, logger.With().Str("component", "store").Logger())
}

// NewBnetClient creates the community API client.
func NewBnetClient(cfg *config.Config, logger zerolog.Logger) (*bnet.Client, error) {
	clientCfg := bnet.DefaultConfig(cfg.BnetClientID, cfg.BnetClientSecret)
	clientCfg.BaseURL = cfg.BnetBaseURL
	clientCfg.RequestTimeout = cfg.RequestTimeout
	return bnet.New(clientCfg, logger.With().Str("component", "bnet").Logger())
}

// NewPacer creates the upstream call pacer.
func NewPacer(cfg *config.Config, logger zerolog.Logger) *pacing.Pacer {
	return pacing.New(pacing.Config{
		BaseDelay: cfg.PaceBaseDelay,
		Rate:      cfg.UpstreamRate,
		Burst:     cfg.UpstreamBurst,
	}, logger.With().Str("component", "pacing").Logger())
}

// NewAssembler creates the profile assembler.
func NewAssembler(client *bnet.Client, pacer *pacing.Pacer, logger zerolog.Logger) *viewer.Assembler {
	return viewer.NewAssembler(client, pacer, bnet.RegionName, logger.With().Str("component", "assembler").Logger())
}

// NewAggregator creates the batch aggregator.
func NewAggregator(assembler *viewer.Assembler, gateway *cache.Gateway, cfg *config.Config, logger zerolog.Logger) *viewer.Aggregator {
	return viewer.NewAggregator(assembler, gateway, cfg.CacheTTL, cfg.MaxInFlight, logger.With().Str("component", "aggregator").Logger())
}

// NewViewerService creates the cached viewer service.
func NewViewerService(gateway *cache.Gateway, aggregator *viewer.Aggregator, logger zerolog.Logger) *viewer.Service {
	return viewer.NewService(gateway, aggregator, logger.With().Str("component", "viewer").Logger())
}

// NewHandler creates the HTTP handler.
func NewHandler(service *viewer.Service, channelStore *store.Store, logger zerolog.Logger) *httpapi.Handler {
	return httpapi.NewHandler(service, channelStore, logger.With().Str("component", "http").Logger())
}

// Run starts the HTTP server when the fx app starts and releases
// resources on shutdown. An unreachable cache backend is logged, not
// fatal, because reads degrade to fresh assembly.
func Run(lc fx.Lifecycle, handler *httpapi.Handler, cfg *config.Config, gateway *cache.Gateway, channelStore *store.Store, rdb *redis.Client, logger zerolog.Logger) {
	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: handler.Routes(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := gateway.Ping(ctx); err != nil {
				logger.Warn().
					Err(err).
					Str("addr", cfg.RedisAddr).
					Msg("cache backend unreachable, viewer data will be assembled fresh")
			}

			logger.Info().
				Str("addr", cfg.Addr).
				Dur("cache_ttl", cfg.CacheTTL).
				Dur("pace_base_delay", cfg.PaceBaseDelay).
				Int("max_profiles", cfg.MaxProfiles).
				Msg("starting server")

			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error().Err(err).Msg("server stopped unexpectedly")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down")

			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
			}
			if err := channelStore.Close(); err != nil {
				logger.Error().Err(err).Msg("close store failed")
			}
			if err := rdb.Close(); err != nil {
				logger.Error().Err(err).Msg("close redis failed")
			}
			return nil
		},
	})
}
