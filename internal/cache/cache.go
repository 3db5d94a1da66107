// Package cache is a small in-process TTL cache for assembled dashboard data.
package cache

import (
	"sync"
	"time"
)

type Observer interface {
	CacheHit()
	CacheMiss()
}

type entry[T any] struct {
	val T
	exp time.Time
}

type Cache[T any] struct {
	mu  sync.RWMutex
	m   map[string]entry[T]
	gen uint64
	ttl time.Duration
	obs Observer
	now func() time.Time
}

// New returns a cache whose entries live for ttl. A ttl <= 0 disables caching.
func New[T any](ttl time.Duration, obs Observer) *Cache[T] {
	return &Cache[T]{m: make(map[string]entry[T]), ttl: ttl, obs: obs, now: time.Now}
}

func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok || c.now().After(e.exp) {
		if c.obs != nil {
			c.obs.CacheMiss()
		}
		return zero, false
	}
	if c.obs != nil {
		c.obs.CacheHit()
	}
	return e.val, true
}

func (c *Cache[T]) Set(key string, v T) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, v)
}

// Generation changes on every Purge. Callers that compute a value outside
// the lock read it first and store with SetIfGeneration.
func (c *Cache[T]) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// SetIfGeneration stores v only if no Purge happened since gen was read.
func (c *Cache[T]) SetIfGeneration(key string, v T, gen uint64) bool {
	if c.ttl <= 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.setLocked(key, v)
	return true
}

func (c *Cache[T]) setLocked(key string, v T) {
	now := c.now()
	for k, e := range c.m {
		if now.After(e.exp) {
			delete(c.m, k)
		}
	}
	c.m[key] = entry[T]{val: v, exp: now.Add(c.ttl)}
}

// Purge drops every entry. Used after writes that change the cached data.
func (c *Cache[T]) Purge() {
	c.mu.Lock()
	c.m = make(map[string]entry[T])
	c.gen++
	c.mu.Unlock()
}

func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
