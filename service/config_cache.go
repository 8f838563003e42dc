package service

import (
	"context"
	"sync"
)

// CacheKey is the composite key for guild-scoped cached configuration.
// Sub is empty for singleton rows (guild settings) and the lowercased
// shortcut name for entries.
type CacheKey struct {
	GuildID int64
	Sub     string
}

// ConfigCache is a read-through memoization layer in front of the durable
// store. Absence is memoized too: a nil value under a present key means
// "known not to exist" until the key is invalidated.
//
// Concurrent misses for the same key may both hit the store; the last
// store into the cache wins. Callers must invalidate affected keys after
// the store write is durably applied, never before.
type ConfigCache[V any] struct {
	mu      sync.RWMutex
	entries map[CacheKey]*V
}

// NewConfigCache creates an empty config cache
func NewConfigCache[V any]() *ConfigCache[V] {
	return &ConfigCache[V]{
		entries: make(map[CacheKey]*V),
	}
}

// QueryOne returns the memoized value for key, fetching and memoizing it
// on a miss. Fetch errors are returned directly and never memoized, so a
// failed read degrades to the next direct store read.
func (c *ConfigCache[V]) QueryOne(ctx context.Context, key CacheKey, fetch func(context.Context) (*V, error)) (*V, error) {
	c.mu.RLock()
	value, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return value, nil
	}

	value, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = value
	c.mu.Unlock()

	return value, nil
}

// InvalidateEntry drops the memoized value for exactly this key
func (c *ConfigCache[V]) InvalidateEntry(key CacheKey) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidateGuild drops every memoized value under a guild. Used by bulk
// operations where individual keys are not tracked.
func (c *ConfigCache[V]) InvalidateGuild(guildID int64) {
	c.mu.Lock()
	for key := range c.entries {
		if key.GuildID == guildID {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}
