// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed cache of published site documents,
// keyed by the host the site is served on. A hit skips the database
// lookup entirely.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached sites.
	pageKeyPrefix = "site:"

	// DefaultPageTTL is how long a published document stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache manages published-site HTML caching in Valkey. Cache errors
// are logged and treated as misses.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// HostKey returns the cache key for a host. Hosts are case-insensitive
// and any port is ignored.
func HostKey(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if i := strings.LastIndexByte(host, ':'); i != -1 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	return pageKeyPrefix + strings.TrimSuffix(host, ".")
}

// Get retrieves the cached document for a host.
func (pc *PageCache) Get(ctx context.Context, host string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, HostKey(host)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "host", host, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "host", host)
	return val, true
}

// Set stores a published document for a host with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, host string, html []byte) {
	if err := pc.client.Set(ctx, HostKey(host), html, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "host", host, "error", err)
	}
}

// Invalidate removes a host from the cache. Empty hosts are ignored.
func (pc *PageCache) Invalidate(ctx context.Context, host string) {
	if host == "" {
		return
	}
	if err := pc.client.Del(ctx, HostKey(host)).Err(); err != nil {
		slog.Warn("page cache invalidate error", "host", host, "error", err)
		return
	}
	slog.Debug("page cache invalidated", "host", host)
}

// InvalidateAll removes all cached sites by scanning for the prefix. It
// backs `pagesmith cache flush`, for rows changed outside the API.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, pageKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("page cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("page cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("page cache fully cleared", "deleted", deleted)
	}
}
