package bnet

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sc2api_requests_total",
			Help: "Total community API requests by endpoint and status code.",
		},
		[]string{"endpoint", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sc2api_request_duration_seconds",
			Help:    "Community API request latency by endpoint.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sc2api_errors_total",
			Help: "Failed community API calls by endpoint and error class.",
		},
		[]string{"endpoint", "class"},
	)

	retriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sc2api_retries_total",
			Help: "Retry attempts by error class.",
		},
		[]string{"class"},
	)

	retryExhaustedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sc2api_retry_exhausted_total",
			Help: "Requests that failed after exhausting all retry attempts.",
		},
	)
)
