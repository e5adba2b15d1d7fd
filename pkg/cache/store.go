package cache

import (
	"container/list"
	"encoding/json"
	"sync"
	"time"
)

// Default sizing, matching the upstream request profile of the pipeline.
const (
	// DefaultCapacity is the default maximum number of live entries.
	DefaultCapacity = 2000

	// DefaultTTL is how long an entry stays valid, measured from insertion.
	DefaultTTL = 3600 * time.Second
)

// Store is a bounded in-memory response cache with least-recently-used
// eviction and a fixed TTL from insertion. Negative results (upstream said
// "not found") are stored as nil payloads so repeated fruitless lookups stay
// off the network.
//
// All access is serialized by a single mutex. The LRU ordering depends on one
// consistent access order, and contention is low (a handful of concurrent
// enrichment fetches), so per-entry locking would buy nothing.
type Store struct {
	mu       sync.Mutex
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a cache with the given capacity and TTL.
// Non-positive values fall back to the defaults.
func NewStore(capacity int, ttl time.Duration) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the stored payload for key. The second return value reports
// whether a live entry exists; a cached negative result returns (nil, true).
// A hit marks the entry most recently used. An entry past its TTL is removed
// and reported as a miss, regardless of how recently it was read.
func (s *Store) Get(key string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[key]
	if !ok {
		cacheMisses.Inc()
		return nil, false
	}

	entry := elem.Value.(*Entry)
	if s.now().Sub(entry.StoredAt) >= s.ttl {
		s.removeElement(elem)
		cacheExpirations.Inc()
		cacheMisses.Inc()
		return nil, false
	}

	s.order.MoveToFront(elem)
	cacheHits.WithLabelValues("memory").Inc()
	return entry.Value, true
}

// Set stores value under key, replacing any previous entry. A nil value
// records a negative result. When the cache is full the least-recently-used
// entry is evicted first.
func (s *Store) Set(key string, value json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.entries[key]; ok {
		entry := elem.Value.(*Entry)
		entry.Value = value
		entry.StoredAt = s.now()
		s.order.MoveToFront(elem)
		return
	}

	if s.order.Len() >= s.capacity {
		if oldest := s.order.Back(); oldest != nil {
			s.removeElement(oldest)
			cacheEvictions.Inc()
		}
	}

	entry := &Entry{Key: key, Value: value, StoredAt: s.now()}
	s.entries[key] = s.order.PushFront(entry)
	cacheSize.WithLabelValues("memory").Set(float64(s.order.Len()))
}

// Len returns the number of entries currently held, including entries that
// have expired but not yet been read.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// Clear discards all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*list.Element)
	s.order.Init()
	cacheSize.WithLabelValues("memory").Set(0)
}

// removeElement drops an entry from both the map and the recency list.
// Callers must hold s.mu.
func (s *Store) removeElement(elem *list.Element) {
	entry := elem.Value.(*Entry)
	delete(s.entries, entry.Key)
	s.order.Remove(elem)
	cacheSize.WithLabelValues("memory").Set(float64(s.order.Len()))
}
