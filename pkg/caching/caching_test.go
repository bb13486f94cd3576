package caching

import (
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	cache, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	if _, ok := cache.Get("cat"); ok {
		t.Error("empty cache should miss")
	}
	if err := cache.Set("cat", []byte(`{"word":"cat"}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	data, ok := cache.Get("cat")
	if !ok || string(data) != `{"word":"cat"}` {
		t.Errorf("Get() = %q, %v", data, ok)
	}
	if _, ok := cache.Get("CAT"); !ok {
		t.Error("keys should be case-insensitive")
	}
}

func TestCacheExpiry(t *testing.T) {
	cache, err := NewCache(t.TempDir(), time.Minute)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	if err := cache.Set("dog", []byte("x")); err != nil {
		t.Fatal(err)
	}

	cache.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, ok := cache.Get("dog"); ok {
		t.Error("expired entry should miss")
	}

	removed, err := cache.Prune()
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Prune() removed %d, want 1", removed)
	}

	cache.now = time.Now
	if _, ok := cache.Get("dog"); ok {
		t.Error("pruned entry should be gone")
	}
}

func TestCacheNoTTL(t *testing.T) {
	cache, err := NewCache(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	_ = cache.Set("owl", []byte("x"))
	cache.now = func() time.Time { return time.Now().Add(24 * 365 * time.Hour) }
	if _, ok := cache.Get("owl"); !ok {
		t.Error("zero TTL should never expire")
	}
}
