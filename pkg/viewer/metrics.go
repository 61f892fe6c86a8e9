package viewer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	assembliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewer_profile_assemblies_total",
			Help: "Profile assemblies by outcome.",
		},
		[]string{"status"}, // "ok", "failed"
	)

	batchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "viewer_batch_duration_seconds",
			Help:    "Wall time to assemble a channel's full profile batch.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
	)

	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewer_requests_total",
			Help: "Viewer collection requests by data source.",
		},
		[]string{"source"}, // "cache", "fresh"
	)
)
