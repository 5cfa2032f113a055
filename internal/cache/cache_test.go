package cache

import (
	"testing"
	"time"
)

func TestLRUGetSet(t *testing.T) {
	c := NewLRU[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("get a = %d, %v", v, ok)
	}

	// "b" is now least recently used and gets evicted.
	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b to be evicted")
	}
	if c.Size() != 2 {
		t.Fatalf("size = %d, want 2", c.Size())
	}
}

func TestLRUTTLExpiry(t *testing.T) {
	c := NewLRU[string](10, 10*time.Millisecond)
	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected expired entry to miss")
	}
	c.Set("k2", "v2")
	time.Sleep(20 * time.Millisecond)
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("cleaned %d, want 1", n)
	}
}

func TestDeletePrefix(t *testing.T) {
	c := NewLRU[int](10, time.Minute)
	c.Set("tenant-a:summary:2025-03", 1)
	c.Set("tenant-a:series", 2)
	c.Set("tenant-b:summary:2025-03", 3)

	if n := c.DeletePrefix("tenant-a:"); n != 2 {
		t.Fatalf("deleted %d, want 2", n)
	}
	if _, ok := c.Get("tenant-b:summary:2025-03"); !ok {
		t.Fatalf("other tenant's entry must survive")
	}
}
