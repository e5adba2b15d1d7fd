package cache

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"
)

func TestStore_SetAndGet(t *testing.T) {
	store := NewStore(10, time.Hour)

	store.Set("k1", json.RawMessage(`{"a":1}`))

	value, ok := store.Get("k1")
	if !ok {
		t.Fatal("Get returned miss for stored key")
	}
	if string(value) != `{"a":1}` {
		t.Errorf("Get = %s, want %s", value, `{"a":1}`)
	}
}

func TestStore_Get_Miss(t *testing.T) {
	store := NewStore(10, time.Hour)

	if _, ok := store.Get("absent"); ok {
		t.Error("Get returned hit for never-stored key")
	}
}

func TestStore_NegativeEntry(t *testing.T) {
	store := NewStore(10, time.Hour)

	store.Set("notfound", nil)

	value, ok := store.Get("notfound")
	if !ok {
		t.Fatal("cached negative result should be a hit")
	}
	if value != nil {
		t.Errorf("negative entry value = %s, want nil", value)
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	store := NewStore(10, time.Hour)

	now := time.Now()
	store.now = func() time.Time { return now }

	store.Set("k1", json.RawMessage(`1`))

	// Still live just inside the TTL.
	now = now.Add(59 * time.Minute)
	if _, ok := store.Get("k1"); !ok {
		t.Fatal("entry expired before TTL")
	}

	// Reading close to expiry must not extend the lifetime: TTL is measured
	// from insertion, independent of access.
	now = now.Add(2 * time.Minute)
	if _, ok := store.Get("k1"); ok {
		t.Error("entry still live after TTL")
	}

	if store.Len() != 0 {
		t.Errorf("expired entry still counted, Len = %d", store.Len())
	}
}

func TestStore_ExpiredEntryFreesCapacity(t *testing.T) {
	store := NewStore(2, time.Hour)

	now := time.Now()
	store.now = func() time.Time { return now }

	store.Set("old", json.RawMessage(`1`))
	now = now.Add(2 * time.Hour)

	if _, ok := store.Get("old"); ok {
		t.Fatal("expired entry returned")
	}

	store.Set("a", json.RawMessage(`2`))
	store.Set("b", json.RawMessage(`3`))

	if _, ok := store.Get("a"); !ok {
		t.Error("live entry evicted while an expired slot should have been free")
	}
	if _, ok := store.Get("b"); !ok {
		t.Error("live entry missing")
	}
}

func TestStore_LRUEviction(t *testing.T) {
	store := NewStore(3, time.Hour)

	store.Set("a", json.RawMessage(`1`))
	store.Set("b", json.RawMessage(`2`))
	store.Set("c", json.RawMessage(`3`))

	// Touch "a" so "b" becomes least recently used.
	if _, ok := store.Get("a"); !ok {
		t.Fatal("expected hit on a")
	}

	store.Set("d", json.RawMessage(`4`))

	if _, ok := store.Get("b"); ok {
		t.Error("least-recently-used entry b survived eviction")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, ok := store.Get(key); !ok {
			t.Errorf("entry %s evicted unexpectedly", key)
		}
	}
}

func TestStore_GetProtectsFromEviction(t *testing.T) {
	store := NewStore(2, time.Hour)

	store.Set("a", json.RawMessage(`1`))
	store.Set("b", json.RawMessage(`2`))

	// A read immediately before eviction pressure protects the entry.
	store.Get("a")
	store.Set("c", json.RawMessage(`3`))

	if _, ok := store.Get("a"); !ok {
		t.Error("recently read entry was evicted")
	}
	if _, ok := store.Get("b"); ok {
		t.Error("stale entry b should have been evicted")
	}
}

func TestStore_OverwriteKeepsSingleEntry(t *testing.T) {
	store := NewStore(10, time.Hour)

	store.Set("k", json.RawMessage(`1`))
	store.Set("k", json.RawMessage(`2`))

	if store.Len() != 1 {
		t.Errorf("Len = %d after overwrite, want 1", store.Len())
	}
	value, _ := store.Get("k")
	if string(value) != `2` {
		t.Errorf("Get = %s after overwrite, want 2", value)
	}
}

func TestStore_OverwriteRefreshesTTL(t *testing.T) {
	store := NewStore(10, time.Hour)

	now := time.Now()
	store.now = func() time.Time { return now }

	store.Set("k", json.RawMessage(`1`))
	now = now.Add(45 * time.Minute)
	store.Set("k", json.RawMessage(`2`))

	now = now.Add(45 * time.Minute)
	if _, ok := store.Get("k"); !ok {
		t.Error("overwrite should restart the TTL from the new insertion")
	}
}

func TestStore_CapacityBound(t *testing.T) {
	store := NewStore(100, time.Hour)

	for i := 0; i < 250; i++ {
		store.Set(fmt.Sprintf("k%d", i), json.RawMessage(`0`))
	}

	if store.Len() != 100 {
		t.Errorf("Len = %d, want capacity 100", store.Len())
	}

	// The most recent insertions survive.
	if _, ok := store.Get("k249"); !ok {
		t.Error("most recent entry missing")
	}
	if _, ok := store.Get("k0"); ok {
		t.Error("oldest entry should have been evicted")
	}
}

func TestStore_Clear(t *testing.T) {
	store := NewStore(10, time.Hour)

	store.Set("a", json.RawMessage(`1`))
	store.Set("b", nil)
	store.Clear()

	if store.Len() != 0 {
		t.Errorf("Len = %d after Clear, want 0", store.Len())
	}
	if _, ok := store.Get("a"); ok {
		t.Error("entry survived Clear")
	}
}
