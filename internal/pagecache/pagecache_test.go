package pagecache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheRoundtrip(t *testing.T) {
	c := New(Config{TTL: time.Minute, MaxSize: 4})
	ctx := context.Background()

	if _, ok := c.Get(ctx, "page:1"); ok {
		t.Error("empty cache should miss")
	}

	c.Set(ctx, "page:1", []byte("<html>one</html>"))

	body, ok := c.Get(ctx, "page:1")
	if !ok {
		t.Fatal("cache should hit after Set")
	}
	if string(body) != "<html>one</html>" {
		t.Errorf("body = %q", body)
	}
	if c.Backend() != "memory" {
		t.Errorf("Backend = %q, want memory", c.Backend())
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := newMemoryCache(Config{TTL: 10 * time.Millisecond, MaxSize: 4})
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"))
	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("expired entry should miss")
	}
}

func TestMemoryCacheCap(t *testing.T) {
	c := newMemoryCache(Config{TTL: time.Minute, MaxSize: 2})
	ctx := context.Background()

	c.Set(ctx, "a", []byte("1"))
	c.Set(ctx, "b", []byte("2"))
	c.Set(ctx, "c", []byte("3")) // hits the cap, drops the map

	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("entry a should be gone after cap reset")
	}
	if _, ok := c.Get(ctx, "c"); !ok {
		t.Error("entry c should survive")
	}
}

func TestRedisFallsBackToMemory(t *testing.T) {
	// Nothing listens on this port; construction must fall back.
	c := New(Config{RedisURL: "redis://127.0.0.1:1/0", TTL: time.Minute})

	if c.Backend() != "memory" {
		t.Errorf("Backend = %q, want memory fallback", c.Backend())
	}
}
