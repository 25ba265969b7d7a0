package cache

import (
	"testing"
	"time"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[int](2, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("a should be cached")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should have been evicted")
	}
	for key, want := range map[string]int{"a": 1, "c": 3} {
		if got, ok := c.Get(key); !ok || got != want {
			t.Fatalf("Get(%q) = %d, %v", key, got, ok)
		}
	}
	if s := c.Stats(); s.Size != 2 || s.Hits != 3 || s.Misses != 1 {
		t.Fatalf("unexpected stats %+v", s)
	}
}

func TestLRUExpiry(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewLRU[string](4, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	now = now.Add(59 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatalf("entry expired early")
	}
	now = now.Add(2 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("entry should have expired")
	}
	if s := c.Stats(); s.Size != 0 {
		t.Fatalf("expired entry kept: %+v", s)
	}
}

func TestLRUOverwriteAndDelete(t *testing.T) {
	c := NewLRU[int](0, 0)
	c.Set("a", 1)
	c.Set("a", 2)
	if got, _ := c.Get("a"); got != 2 {
		t.Fatalf("overwrite lost: %d", got)
	}
	c.Set("b", 3)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("size should clamp to one entry")
	}
	c.Delete("b")
	if s := c.Stats(); s.Size != 0 {
		t.Fatalf("delete left %d entries", s.Size)
	}
}
