// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package cache

import (
	"sync"

	"github.com/luxfi/geth/common/lru"
)

// LRUCache is a read-through cache for state whose only writer invalidates
// what it changes. A fill that raced with an invalidation is dropped, so an
// invalidated key is never repopulated with the value it replaced.
type LRUCache[K comparable, V any] struct {
	lock       sync.Mutex
	values     *lru.Cache[K, V]
	generation uint64
}

func NewLRUCache[K comparable, V any](size int) *LRUCache[K, V] {
	return &LRUCache[K, V]{
		values: lru.NewCache[K, V](size),
	}
}

// Get returns the cached value for key or loads it with fetch. Failed loads
// are not cached.
func (c *LRUCache[K, V]) Get(key K, fetch func(K) (V, error)) (V, error) {
	c.lock.Lock()
	if v, ok := c.values.Get(key); ok {
		c.lock.Unlock()
		return v, nil
	}
	generation := c.generation
	c.lock.Unlock()

	v, err := fetch(key)
	if err != nil {
		var zero V
		return zero, err
	}

	c.lock.Lock()
	if c.generation == generation {
		c.values.Add(key, v)
	}
	c.lock.Unlock()
	return v, nil
}

// Invalidate drops keys
func (c *LRUCache[K, V]) Invalidate(keys ...K) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.generation++
	for _, k := range keys {
		c.values.Remove(k)
	}
}

func (c *LRUCache[K, V]) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.values.Len()
}
