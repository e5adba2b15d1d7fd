// Package ratelimit provides courtesy pacing for upstream requests.
//
// None of the consumed registries publish an error-budget protocol, so
// pacing is a client-side minimum interval per upstream host rather than a
// server-driven window.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pacerWaitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marinescope_pacer_waits_total",
		Help: "Total number of requests delayed by the pacer, by host",
	}, []string{"host"})

	pacerWaitSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "marinescope_pacer_wait_seconds",
		Help:    "Pacing delay applied before a request, by host",
		Buckets: []float64{0.05, 0.1, 0.3, 0.5, 1, 2},
	}, []string{"host"})
)

// Pacer enforces a minimum interval between requests to the same host.
type Pacer struct {
	mu       sync.Mutex
	interval time.Duration
	last     map[string]time.Time
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewPacer creates a pacer with the given per-host minimum interval.
// A non-positive interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{
		interval: interval,
		last:     make(map[string]time.Time),
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// Wait blocks until at least the configured interval has passed since the
// previous request to host, or until ctx is cancelled. It returns ctx.Err()
// on cancellation and nil otherwise.
func (p *Pacer) Wait(ctx context.Context, host string) error {
	if p == nil || p.interval <= 0 {
		return nil
	}

	p.mu.Lock()
	now := p.now()
	wait := time.Duration(0)
	if prev, ok := p.last[host]; ok {
		if elapsed := now.Sub(prev); elapsed < p.interval {
			wait = p.interval - elapsed
		}
	}
	// Reserve the slot before sleeping so concurrent callers queue up
	// behind each other instead of all releasing at once.
	p.last[host] = now.Add(wait)
	p.mu.Unlock()

	if wait <= 0 {
		return nil
	}

	pacerWaitsTotal.WithLabelValues(host).Inc()
	pacerWaitSeconds.WithLabelValues(host).Observe(wait.Seconds())

	return p.sleep(ctx, wait)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
