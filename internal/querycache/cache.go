// Copyright (c) 2025 Sessionctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package querycache is a small keyed result cache for backend lookups.
//
// Entries live until they are invalidated by key or the whole cache is reset.
// Concurrent fetches of the same key share one in-flight call. A fetch that
// was started before an invalidation of its key does not repopulate the entry.
package querycache

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	value any
}

// Cache stores fetched values by key.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	gens    map[string]uint64
	group   singleflight.Group
	log     zerolog.Logger
}

// New returns an empty cache.
func New(log zerolog.Logger) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		gens:    make(map[string]uint64),
		log:     log.With().Str("component", "querycache").Logger(),
	}
}

// Fetch returns the cached value for key, calling fn to populate it on a miss.
// Errors are returned to every waiter and never cached. Cancelling ctx only
// abandons this caller's wait; other callers joined on the same fetch still
// get its result.
func (c *Cache) Fetch(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		c.log.Trace().Str("key", key).Msg("hit")
		return e.value, nil
	}
	gen := c.gens[key]
	c.gens[key] = gen
	c.mu.Unlock()

	// The shared call ignores cancellation; each caller waits on its own ctx.
	ch := c.group.DoChan(key, func() (any, error) {
		c.log.Debug().Str("key", key).Msg("miss, fetching")
		v, err := fn(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gens[key] == gen {
			c.entries[key] = entry{value: v}
		} else {
			c.log.Debug().Str("key", key).Msg("invalidated during fetch, not stored")
		}
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.log.Trace().Str("key", key).Msg("joined in-flight fetch")
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Peek returns the cached value without fetching.
func (c *Cache) Peek(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e.value, ok
}

// Invalidate marks key stale. The next Fetch calls through.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.gens[key]++
	c.mu.Unlock()
	c.group.Forget(key)
	c.log.Debug().Str("key", key).Msg("invalidated")
}

// Reset drops every entry.
func (c *Cache) Reset() {
	c.mu.Lock()
	keys := make([]string, 0, len(c.gens))
	for k := range c.gens {
		keys = append(keys, k)
	}
	for _, k := range keys {
		delete(c.entries, k)
		c.gens[k]++
	}
	c.mu.Unlock()
	for _, k := range keys {
		c.group.Forget(k)
	}
	c.log.Debug().Int("keys", len(keys)).Msg("reset")
}
