// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package pagecache caches rendered landing page HTML. Entries are keyed by
// content revision, so a content update naturally starts a fresh key and
// stale entries age out via TTL. Backed by an in-process map, or by Redis
// when configured, with automatic fallback to memory if Redis is down.
package pagecache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores rendered pages.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Backend() string
}

// Config holds page cache configuration.
type Config struct {
	RedisURL string // empty selects the memory backend
	Prefix   string
	TTL      time.Duration
	MaxSize  int // memory backend entry cap
}

// New builds a cache from config, falling back to memory when Redis is
// configured but unreachable.
func New(cfg Config) Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 256
	}

	if cfg.RedisURL != "" {
		c, err := newRedisCache(cfg)
		if err == nil {
			return c
		}
		slog.Warn("page cache falling back to memory, Redis unavailable", "error", err)
	}

	return newMemoryCache(cfg)
}

// memoryCache is a small TTL map. Size is bounded by dropping the whole map
// when the cap is hit; the working set is one entry per content revision, so
// eviction precision is not worth the bookkeeping.
type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	maxSize int
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

func newMemoryCache(cfg Config) *memoryCache {
	return &memoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     cfg.TTL,
		maxSize: cfg.MaxSize,
	}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expires) {
		return nil, false
	}
	return e.value, true
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.maxSize {
		c.entries = make(map[string]memoryEntry)
	}
	c.entries[key] = memoryEntry{value: value, expires: time.Now().Add(c.ttl)}
}

func (c *memoryCache) Backend() string { return "memory" }

// redisCache shares rendered pages across instances.
type redisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func newRedisCache(cfg Config) (*redisCache, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &redisCache{client: client, prefix: cfg.Prefix, ttl: cfg.TTL}, nil
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte) {
	if err := c.client.Set(ctx, c.prefix+key, value, c.ttl).Err(); err != nil {
		slog.Debug("page cache set failed", "error", err)
	}
}

func (c *redisCache) Backend() string { return "redis" }
