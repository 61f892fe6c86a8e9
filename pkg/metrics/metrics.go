// Package metrics provides the centralized Prometheus metrics registry for
// the viewer service. All metrics are defined in their respective packages
// (bnet, cache, pacing, viewer) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the service.
// All metrics are automatically registered via promauto in their
// respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Upstream Metrics (pkg/bnet):
//   - sc2api_requests_total{endpoint, status} (Counter): Requests by endpoint and HTTP status
//   - sc2api_request_duration_seconds{endpoint} (Histogram): Request latency by endpoint
//   - sc2api_errors_total{endpoint, class} (Counter): Failures by endpoint and error class
//   - sc2api_retries_total{class} (Counter): Retry attempts by error class
//   - sc2api_retry_exhausted_total (Counter): Requests that exhausted all retries
//
// Cache Metrics (pkg/cache):
//   - viewer_cache_hits_total (Counter): Cache hits
//   - viewer_cache_misses_total (Counter): Cache misses
//   - viewer_cache_writes_total (Counter): Successful writes
//   - viewer_cache_written_bytes_total (Counter): Bytes written
//   - viewer_cache_degraded_reads_total (Counter): Reads served fresh due to backend trouble
//   - viewer_cache_errors_total{operation} (Counter): Cache operation errors
//
// Pacing Metrics (pkg/pacing):
//   - pacing_schedules_total (Counter): Delays handed out to upstream callers
//   - pacing_stagger_delay_seconds (Histogram): Stagger delay per scheduled call
//
// Viewer Metrics (pkg/viewer):
//   - viewer_requests_total{source} (Counter): Collection requests by data source (cache, fresh)
//   - viewer_profile_assemblies_total{status} (Counter): Assemblies by outcome (ok, failed)
//   - viewer_batch_duration_seconds (Histogram): Wall time per assembled batch
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(viewer_cache_hits_total[5m])) /
//   (sum(rate(viewer_cache_hits_total[5m])) + sum(rate(viewer_cache_misses_total[5m])))
//
//   # Upstream Error Rate
//   rate(sc2api_errors_total[5m])
//
//   # P95 Upstream Latency
//   histogram_quantile(0.95, rate(sc2api_request_duration_seconds_bucket[5m]))
//
//   # Share of Requests Served From Cache
//   rate(viewer_requests_total{source="cache"}[5m]) /
//   sum(rate(viewer_requests_total[5m]))
