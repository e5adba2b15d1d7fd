package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for retry operations.
var (
	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marinescope_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})

	retryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "marinescope_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error class",
		Buckets: []float64{0.5, 1, 2, 4, 8, 16},
	}, []string{"error_class"})

	retryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marinescope_retry_exhausted_total",
		Help: "Total number of requests that exhausted their retry budget, by host",
	}, []string{"host"})
)

// rateLimitBackoff returns the wait after a 429 on the given zero-based
// attempt: 2^(attempt+1) seconds, so 2s after the first attempt, 4s after
// the second.
func rateLimitBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt+1)) * time.Second
}

func recordRetry(class ErrorClass, backoff time.Duration) {
	retriesTotal.WithLabelValues(string(class)).Inc()
	retryBackoffSeconds.WithLabelValues(string(class)).Observe(backoff.Seconds())
}

func recordExhausted(host string) {
	retryExhaustedTotal.WithLabelValues(host).Inc()
}
