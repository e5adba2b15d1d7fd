// Package client provides the core upstream HTTP fetch layer with caching,
// retry, and rate-limit backoff.
//
// The public contract is "payload or absent": every failure mode collapses
// to an absent result plus a cached negative entry, and no call ever returns
// an error to the pipeline. Diagnostic detail is available through logging
// and metrics only.
package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/marinescope/marinescope/pkg/cache"
	"github.com/marinescope/marinescope/pkg/logging"
	"github.com/marinescope/marinescope/pkg/ratelimit"
)

// Prometheus metrics for upstream fetch operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marinescope_requests_total",
		Help: "Total upstream requests by host and status",
	}, []string{"host", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "marinescope_request_duration_seconds",
		Help:    "Upstream request duration in seconds by host",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 15},
	}, []string{"host"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marinescope_errors_total",
		Help: "Total upstream errors by class",
	}, []string{"class"})
)

// Config holds the fetch client configuration.
type Config struct {
	// UserAgent is the descriptive client identifier sent on every request.
	UserAgent string

	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int

	// Per-attempt timeouts by upstream family. The occurrence provider is
	// markedly slower than the registry, so it gets the longest budget.
	RegistryTimeout   time.Duration
	OccurrenceTimeout time.Duration
	DefaultTimeout    time.Duration

	// TransientBackoff is the pause after a timeout or transport error.
	TransientBackoff time.Duration

	// Cache sizing for the in-memory tier.
	CacheCapacity int
	CacheTTL      time.Duration

	// Redis enables the optional second cache tier when non-nil.
	Redis *redis.Client

	// Pacer applies a courtesy delay between requests to the same host.
	// Nil disables pacing.
	Pacer *ratelimit.Pacer
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		UserAgent:         "MarineScopeApp/1.0 (https://github.com/marinescope)",
		MaxRetries:        2,
		RegistryTimeout:   10 * time.Second,
		OccurrenceTimeout: 15 * time.Second,
		DefaultTimeout:    8 * time.Second,
		TransientBackoff:  500 * time.Millisecond,
		CacheCapacity:     cache.DefaultCapacity,
		CacheTTL:          cache.DefaultTTL,
	}
}

// Client performs logical GET requests against upstream endpoints,
// consulting and populating the response cache.
type Client struct {
	httpClient *http.Client
	cache      *cache.Tiered
	group      singleflight.Group
	config     Config
	logger     zerolog.Logger

	// sleep is swappable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a fetch client.
func New(cfg Config) *Client {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RegistryTimeout <= 0 {
		cfg.RegistryTimeout = 10 * time.Second
	}
	if cfg.OccurrenceTimeout <= 0 {
		cfg.OccurrenceTimeout = 15 * time.Second
	}
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = 8 * time.Second
	}
	if cfg.TransientBackoff <= 0 {
		cfg.TransientBackoff = 500 * time.Millisecond
	}

	store := cache.NewStore(cfg.CacheCapacity, cfg.CacheTTL)

	return &Client{
		// No client-wide timeout: each attempt carries its own context
		// deadline chosen per upstream family.
		httpClient: &http.Client{},
		cache:      cache.NewTiered(store, cfg.Redis),
		config:     cfg,
		logger:     logging.NewLogger("fetch-client"),
		sleep:      sleepCtx,
	}
}

// GetJSON performs a single logical request. It returns the JSON payload and
// true on success, or nil and false when the upstream has no data — whether
// that absence came from a 404, an empty body, an unparsable payload, retry
// exhaustion, or a cached negative entry.
func (c *Client) GetJSON(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, bool) {
	key := cache.Key{Endpoint: endpoint, Params: params}.String()

	if value, ok := c.cache.Get(ctx, key); ok {
		c.logger.Debug().Str("endpoint", endpoint).Bool("negative", value == nil).Msg("Cache hit")
		return value, value != nil
	}

	// Concurrent identical requests share one network round trip and one
	// cache fill.
	result, _, _ := c.group.Do(key, func() (interface{}, error) {
		value := c.fetch(ctx, endpoint, params)
		c.cache.Set(ctx, key, value)
		return value, nil
	})

	value, _ := result.(json.RawMessage)
	return value, value != nil
}

// fetch runs the attempt loop for one request. It returns the payload or nil
// for every failure mode.
func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) json.RawMessage {
	host := hostOf(endpoint)
	attempts := c.config.MaxRetries + 1

	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(host).Observe(time.Since(start).Seconds())
	}()

	for attempt := 0; attempt < attempts; attempt++ {
		if err := c.config.Pacer.Wait(ctx, host); err != nil {
			return nil
		}

		payload, outcome := c.attempt(ctx, endpoint, params, host)

		switch outcome {
		case outcomeSuccess:
			return payload

		case outcomeNegative:
			// Definitive: the upstream has no data for this request.
			return nil

		case outcomeRateLimited:
			errorsTotal.WithLabelValues(string(ErrorClassRateLimit)).Inc()
			if attempt+1 < attempts {
				wait := rateLimitBackoff(attempt)
				c.logger.Warn().
					Str("endpoint", endpoint).
					Int("attempt", attempt+1).
					Dur("backoff", wait).
					Msg("Rate limited, backing off")
				recordRetry(ErrorClassRateLimit, wait)
				if err := c.sleep(ctx, wait); err != nil {
					return nil
				}
				continue
			}

		case outcomeTransient:
			errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			if attempt+1 < attempts {
				recordRetry(ErrorClassNetwork, c.config.TransientBackoff)
				if err := c.sleep(ctx, c.config.TransientBackoff); err != nil {
					return nil
				}
				continue
			}
		}
	}

	recordExhausted(host)
	c.logger.Warn().
		Str("endpoint", endpoint).
		Int("attempts", attempts).
		Msg("Retry attempts exhausted")
	return nil
}

// attempt executes one HTTP round trip and classifies the result.
func (c *Client) attempt(ctx context.Context, endpoint string, params url.Values, host string) (json.RawMessage, outcome) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeoutFor(host))
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Invalid request")
		return nil, outcomeNegative
	}
	if len(params) > 0 {
		req.URL.RawQuery = params.Encode()
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("endpoint", endpoint).Msg("Transport error")
		requestsTotal.WithLabelValues(host, "network_error").Inc()
		return nil, outcomeTransient
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(host, strconv.Itoa(resp.StatusCode)).Inc()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, outcomeRateLimited

	case resp.StatusCode == http.StatusNotFound,
		resp.StatusCode == http.StatusNoContent:
		c.logger.Debug().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Msg("Upstream has no data")
		return nil, outcomeNegative

	case resp.StatusCode >= 400:
		// Other client and server errors are not worth the retry budget;
		// the upstream registries fail hard, not flaky, on these.
		errorsTotal.WithLabelValues(string(classifyStatus(resp.StatusCode))).Inc()
		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Msg("Upstream error")
		return nil, outcomeNegative
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Debug().Err(err).Str("endpoint", endpoint).Msg("Body read failed")
		return nil, outcomeTransient
	}

	if len(body) == 0 {
		return nil, outcomeNegative
	}

	if !json.Valid(body) {
		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("bytes", len(body)).
			Msg("Payload is not valid JSON, treating as absent")
		return nil, outcomeNegative
	}

	return json.RawMessage(body), outcomeSuccess
}

// timeoutFor picks the per-attempt timeout for an upstream host.
func (c *Client) timeoutFor(host string) time.Duration {
	switch {
	case strings.Contains(host, "marinespecies.org"):
		return c.config.RegistryTimeout
	case strings.Contains(host, "api.obis.org"):
		return c.config.OccurrenceTimeout
	default:
		return c.config.DefaultTimeout
	}
}

// Cache exposes the response cache, mainly for tests.
func (c *Client) Cache() *cache.Tiered {
	return c.cache
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

func hostOf(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
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
