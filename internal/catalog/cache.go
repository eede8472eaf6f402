// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// cache.go holds loaded template sources in memory. Templates are read
// from the catalog filesystem once per id; every later Load is served from
// here. Concurrent first loads of the same id share one read.

package catalog

import (
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// sourceCache is a concurrency-safe read-through cache of template sources.
type sourceCache struct {
	mu      sync.RWMutex
	entries map[string]*Source
	group   singleflight.Group
}

// newSourceCache creates an empty cache.
func newSourceCache() *sourceCache {
	return &sourceCache{
		entries: make(map[string]*Source),
	}
}

// get retrieves a cached source. Returns nil on miss.
func (c *sourceCache) get(id string) *Source {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[id]
}

// put stores a source in the cache.
func (c *sourceCache) put(id string, src *Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = src
	slog.Debug("template source cached", "id", id, "size", len(c.entries))
}

// load returns the cached source for id, calling read on a miss. Only one
// read runs per id at a time; failed reads are not cached.
func (c *sourceCache) load(id string, read func() (*Source, error)) (*Source, error) {
	if src := c.get(id); src != nil {
		return src, nil
	}
	v, err, _ := c.group.Do(id, func() (any, error) {
		if src := c.get(id); src != nil {
			return src, nil
		}
		src, err := read()
		if err != nil {
			return nil, err
		}
		c.put(id, src)
		return src, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Source), nil
}

// len reports the number of cached sources.
func (c *sourceCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
