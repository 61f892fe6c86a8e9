// Package pacing spreads dependent upstream calls out in time so that a
// burst of profile lookups stays under the community API's request ceiling.
//
// Two mechanisms combine: a per-profile stagger proportional to the
// profile's position in the batch, and a shared token bucket that caps the
// steady-state request rate across all in-flight work.
package pacing

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

var (
	schedulesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pacing_schedules_total",
			Help: "Delays handed out to upstream callers.",
		},
	)

	staggerDelay = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pacing_stagger_delay_seconds",
			Help:    "Stagger delay applied per scheduled call.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)
)

// SleepFunc blocks for the given duration or until the context is done.
// Injectable so tests can observe delays without waiting them out.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Config holds pacer configuration.
type Config struct {
	// BaseDelay is the stagger unit. The profile at batch index i waits
	// (i+1)*BaseDelay before each of its dependent calls.
	BaseDelay time.Duration

	// Rate is the steady-state ceiling in requests per second shared by
	// all callers. Zero or negative means unlimited.
	Rate float64

	// Burst is the token bucket depth (default 1).
	Burst int

	// Sleep replaces the real timer, for tests. Nil uses a timer.
	Sleep SleepFunc
}

// Pacer delays dependent upstream calls. It is safe for concurrent use.
type Pacer struct {
	base    time.Duration
	limiter *rate.Limiter
	sleep   SleepFunc
	logger  zerolog.Logger
}

// New creates a Pacer.
func New(cfg Config, logger zerolog.Logger) *Pacer {
	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = sleepTimer
	}

	return &Pacer{
		base:    cfg.BaseDelay,
		limiter: rate.NewLimiter(limit, burst),
		sleep:   sleep,
		logger:  logger,
	}
}

// Schedule blocks before the next dependent call of the profile at the
// given batch index: first the stagger delay (index+1)*BaseDelay, then a
// token from the shared bucket. Returns early with the context's error if
// it is cancelled while waiting.
func (p *Pacer) Schedule(ctx context.Context, index int) error {
	delay := time.Duration(index+1) * p.base

	schedulesTotal.Inc()
	staggerDelay.Observe(delay.Seconds())

	if delay > 0 {
		p.logger.Debug().
			Int("index", index).
			Dur("delay", delay).
			Msg("staggering upstream call")
		if err := p.sleep(ctx, delay); err != nil {
			return err
		}
	}

	return p.limiter.Wait(ctx)
}

func sleepTimer(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
