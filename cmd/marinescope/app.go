package main

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marinescope/marinescope/pkg/browse"
	"github.com/marinescope/marinescope/pkg/client"
	"github.com/marinescope/marinescope/pkg/config"
	"github.com/marinescope/marinescope/pkg/enrich"
	"github.com/marinescope/marinescope/pkg/localstore"
	"github.com/marinescope/marinescope/pkg/logging"
	"github.com/marinescope/marinescope/pkg/obis"
	"github.com/marinescope/marinescope/pkg/ratelimit"
	"github.com/marinescope/marinescope/pkg/resolver"
	"github.com/marinescope/marinescope/pkg/search"
	"github.com/marinescope/marinescope/pkg/wiki"
	"github.com/marinescope/marinescope/pkg/worms"
)

// app lazily assembles the pipeline from the configuration file. Commands
// share one instance so every upstream call rides the same cache.
type app struct {
	configPath *string

	cfg      *config.Config
	session  *search.Session
	registry *worms.Client
	store    *localstore.Store
}

func newApp(configPath *string) *app {
	return &app{configPath: configPath}
}

func (a *app) ensure() error {
	if a.session != nil {
		return nil
	}

	cfg, _, err := config.Load(*a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Console,
	})

	fetchCfg := client.Config{
		UserAgent:         cfg.Fetch.UserAgent,
		MaxRetries:        cfg.Fetch.MaxRetries,
		RegistryTimeout:   time.Duration(cfg.Fetch.RegistryTimeoutSeconds) * time.Second,
		OccurrenceTimeout: time.Duration(cfg.Fetch.OccurrenceTimeoutSeconds) * time.Second,
		DefaultTimeout:    time.Duration(cfg.Fetch.DefaultTimeoutSeconds) * time.Second,
		TransientBackoff:  time.Duration(cfg.Fetch.TransientBackoffMillis) * time.Millisecond,
		CacheCapacity:     cfg.Cache.Capacity,
		CacheTTL:          time.Duration(cfg.Cache.TTLSeconds) * time.Second,
	}
	if cfg.Redis.Enabled {
		fetchCfg.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	if cfg.Fetch.PaceIntervalMillis > 0 {
		fetchCfg.Pacer = ratelimit.NewPacer(time.Duration(cfg.Fetch.PaceIntervalMillis) * time.Millisecond)
	}

	fetch := client.New(fetchCfg)
	a.registry = worms.NewClient(fetch, cfg.Upstreams.RegistryBaseURL)
	occurrences := obis.NewClient(fetch, cfg.Upstreams.OccurrenceBaseURL)
	wikiClient := wiki.NewClient(fetch, cfg.Upstreams.WikiEndpoint)

	res := resolver.New(a.registry, wikiClient)
	agg := enrich.New(a.registry, occurrences, wikiClient)
	a.store = localstore.New(cfg.Local.Path)
	a.session = search.New(res, agg, browse.NewSampler(res, agg), a.store)
	return nil
}
