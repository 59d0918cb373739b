// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// catalog.go provides a Valkey-backed cache for public catalog responses.
// The assembled category tree is the hot path of the storefront: every
// page load fetches it, but it only changes when someone edits categories
// in the back office. The cache stores the serialized JSON response so
// reads skip both the DB query and the tree assembly.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// catalogKeyPrefix is the Valkey key prefix for cached catalog responses.
	catalogKeyPrefix = "catalog:"

	// DefaultCatalogTTL is how long a catalog response stays cached. The
	// TTL is a backstop; mutations invalidate explicitly.
	DefaultCatalogTTL = 5 * time.Minute
)

// CatalogCache manages catalog response caching in Valkey.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a new catalog cache backed by the given Valkey client.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl == 0 {
		ttl = DefaultCatalogTTL
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// Get retrieves a cached response body for a key. Returns false on miss.
func (cc *CatalogCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := cc.client.Get(ctx, catalogKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("catalog cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("catalog cache hit", "key", key)
	return val, true
}

// Set stores a serialized response body for a key with the configured TTL.
func (cc *CatalogCache) Set(ctx context.Context, key string, body []byte) {
	if err := cc.client.Set(ctx, catalogKeyPrefix+key, body, cc.ttl).Err(); err != nil {
		slog.Warn("catalog cache set error", "key", key, "error", err)
	}
}

// Invalidate removes a single cached response by key.
func (cc *CatalogCache) Invalidate(ctx context.Context, key string) {
	if err := cc.client.Del(ctx, catalogKeyPrefix+key).Err(); err != nil {
		slog.Warn("catalog cache invalidate error", "key", key, "error", err)
	}
	slog.Debug("catalog cache invalidated", "key", key)
}

// InvalidateTree removes the cached category tree. Called after every
// category mutation, including moves and detach deletes, since any of
// them can reshape the tree.
func (cc *CatalogCache) InvalidateTree(ctx context.Context) {
	cc.Invalidate(ctx, TreeKey())
}

// InvalidateAll removes all cached catalog responses by scanning for the
// prefix. Used after bulk changes like a reseed or product import.
func (cc *CatalogCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := cc.client.Scan(ctx, cursor, catalogKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("catalog cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := cc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("catalog cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("catalog cache fully cleared", "deleted", deleted)
	}
}

// TreeKey returns the cache key for the public category tree.
func TreeKey() string {
	return "_tree"
}

// CategoryKey returns the cache key for a category detail page by slug.
func CategoryKey(slug string) string {
	return "category:" + slug
}
