// Package cache provides the response cache used by the upstream fetch
// client.
//
// The memory tier is a capacity-bounded map with least-recently-used
// eviction and a fixed TTL measured from insertion. Every successful Get
// marks the entry most recently used; an entry that is frequently read but
// never refreshed still expires. Negative results are cached alongside
// positive ones so a key the upstream does not know stays off the network
// for a full TTL.
//
// # Basic Usage
//
//	store := cache.NewStore(2000, time.Hour)
//
//	key := cache.Key{
//		Endpoint: "https://www.marinespecies.org/rest/AphiaRecordByAphiaID/137065",
//	}
//
//	if value, ok := store.Get(key.String()); ok {
//		// hit; value == nil means a cached negative
//	}
//
//	store.Set(key.String(), payload)
//
// # Redis tier
//
// Wrapping the store in a Tiered adds an optional Redis second tier with
// the same TTL, for reuse across processes:
//
//	tiered := cache.NewTiered(store, redisClient)
//	value, ok := tiered.Get(ctx, key.String())
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - marinescope_cache_hits_total{layer} - hits by tier
//   - marinescope_cache_misses_total - misses
//   - marinescope_cache_entries{layer} - live entry count
//   - marinescope_cache_evictions_total - LRU evictions
//   - marinescope_cache_expirations_total - TTL expirations seen on read
//   - marinescope_cache_errors_total{operation} - Redis tier errors
package cache
