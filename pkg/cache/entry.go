// Package cache provides the bounded, time-expiring response memo shared by
// every upstream fetch, with an optional Redis second tier.
package cache

import (
	"encoding/json"
	"time"
)

// Entry is one cached response. A nil Value records a negative result: the
// upstream definitively answered "not found" and re-asking within the TTL
// would be wasted work.
type Entry struct {
	Key      string          `json:"key"`
	Value    json.RawMessage `json:"value"`
	StoredAt time.Time       `json:"stored_at"`
}

// Age returns how long ago the entry was stored.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.StoredAt)
}

// Negative reports whether the entry records an upstream "not found".
func (e *Entry) Negative() bool {
	return e.Value == nil
}
