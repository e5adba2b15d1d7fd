package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrInvalidEntry indicates a second-tier entry that could not be decoded.
var ErrInvalidEntry = errors.New("invalid cache entry")

// Tiered layers the in-memory LRU store over an optional Redis tier. The
// memory tier is authoritative for LRU semantics; Redis only adds
// cross-process reuse with the same TTL. With a nil Redis client the type
// degrades to the memory store alone.
type Tiered struct {
	mem *Store
	rdb *redis.Client
	ttl time.Duration
}

// NewTiered creates a tiered cache. redisClient may be nil.
func NewTiered(mem *Store, redisClient *redis.Client) *Tiered {
	return &Tiered{
		mem: mem,
		rdb: redisClient,
		ttl: mem.ttl,
	}
}

// Get returns the payload for key from the first tier that holds a live
// entry. A Redis hit is promoted into the memory tier. Redis failures are
// counted and treated as misses, never surfaced.
func (t *Tiered) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	if value, ok := t.mem.Get(key); ok {
		return value, true
	}

	if t.rdb == nil {
		return nil, false
	}

	data, err := t.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			cacheErrors.WithLabelValues("get").Inc()
		}
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		cacheErrors.WithLabelValues("get").Inc()
		return nil, false
	}

	// Redis expiry lags the fixed TTL only by clock skew, but the insertion
	// timestamp is still checked so both tiers agree on liveness.
	if entry.Age(time.Now()) >= t.ttl {
		return nil, false
	}

	t.mem.Set(key, entry.Value)
	cacheHits.WithLabelValues("redis").Inc()
	return entry.Value, true
}

// Set stores value in every configured tier. A nil value records a negative
// result in both.
func (t *Tiered) Set(ctx context.Context, key string, value json.RawMessage) {
	t.mem.Set(key, value)

	if t.rdb == nil {
		return
	}

	entry := Entry{Key: key, Value: value, StoredAt: time.Now()}
	data, err := json.Marshal(entry)
	if err != nil {
		cacheErrors.WithLabelValues("set").Inc()
		return
	}

	if err := t.rdb.Set(ctx, key, data, t.ttl).Err(); err != nil {
		cacheErrors.WithLabelValues("set").Inc()
	}
}

// Memory exposes the in-memory tier, mainly for tests.
func (t *Tiered) Memory() *Store {
	return t.mem
}
