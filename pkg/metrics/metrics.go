// Package metrics documents the Prometheus metrics exposed by the
// pipeline. All metrics are defined in their respective packages (client,
// cache, ratelimit) to maintain modularity and avoid circular
// dependencies.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the Prometheus registerer used by the pipeline. All metrics
// are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - marinescope_requests_total{host, status} (Counter): Upstream requests by host and HTTP status
//   - marinescope_request_duration_seconds{host} (Histogram): Request duration by host
//   - marinescope_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Retry Metrics (pkg/client):
//   - marinescope_retries_total{error_class} (Counter): Retry attempts by error class
//   - marinescope_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - marinescope_retry_exhausted_total{host} (Counter): Requests that exhausted max retries
//
// Cache Metrics (pkg/cache):
//   - marinescope_cache_hits_total{layer} (Counter): Cache hits by layer (memory, redis)
//   - marinescope_cache_misses_total (Counter): Cache misses across both layers
//   - marinescope_cache_entries{layer} (Gauge): Live entries by layer
//   - marinescope_cache_evictions_total (Counter): LRU evictions from the memory layer
//   - marinescope_cache_expirations_total (Counter): Entries dropped on read because their TTL passed
//   - marinescope_cache_errors_total{operation} (Counter): Second-tier operation errors
//
// Pacing Metrics (pkg/ratelimit):
//   - marinescope_pacer_waits_total{host} (Counter): Requests delayed by the pacer
//   - marinescope_pacer_wait_seconds{host} (Histogram): Pacing delay applied before a request
//
// Example Prometheus Queries:
//
//   # Cache hit rate
//   sum(rate(marinescope_cache_hits_total[5m])) /
//   (sum(rate(marinescope_cache_hits_total[5m])) + sum(rate(marinescope_cache_misses_total[5m])))
//
//   # Upstream error rate
//   rate(marinescope_errors_total[5m])
//
//   # P95 request latency per upstream
//   histogram_quantile(0.95, rate(marinescope_request_duration_seconds_bucket[5m]))
//
//   # Share of requests that hit the rate limiter
//   rate(marinescope_errors_total{class="rate_limit"}[5m]) / rate(marinescope_requests_total[5m])
