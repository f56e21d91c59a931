package memory

import (
	"context"
	"time"

	"github.com/aretw0/switchboard/pkg/value"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of entries when no size is given.
const DefaultCacheSize = 256

type entry struct {
	value   value.Value
	expires time.Time
}

// Cache implements ports.ResultCache with a bounded LRU.
// Safe for concurrent use.
type Cache struct {
	lru *lru.Cache[string, entry]
	ttl time.Duration
	now func() time.Time
}

// NewCache creates an LRU cache holding at most size entries. A zero ttl keeps
// entries until they are evicted.
func NewCache(size int, ttl time.Duration) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	l, err := lru.New[string, entry](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: l, ttl: ttl, now: time.Now}, nil
}

// Get returns the entry for key unless it has expired.
func (c *Cache) Get(ctx context.Context, key string) (value.Value, bool, error) {
	e, ok := c.lru.Get(key)
	if !ok {
		return value.Null(), false, nil
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		c.lru.Remove(key)
		return value.Null(), false, nil
	}
	return e.value, true, nil
}

// Set stores v, evicting the least recently used entry when full.
func (c *Cache) Set(ctx context.Context, key string, v value.Value) error {
	e := entry{value: v}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.lru.Add(key, e)
	return nil
}

// Len is the number of live and expired-but-unvisited entries.
func (c *Cache) Len() int { return c.lru.Len() }
