// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package cache

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// FIFOCache holds decoded values keyed by their encoding. Entries leave in
// insertion order once capacity is reached. Concurrent misses on one key
// share a single decode.
type FIFOCache[V any] struct {
	lock     sync.RWMutex
	values   map[string]V
	order    []string
	capacity int

	group singleflight.Group
}

func NewFIFOCache[V any](capacity int) *FIFOCache[V] {
	return &FIFOCache[V]{
		values:   make(map[string]V, capacity),
		order:    make([]string, 0, capacity),
		capacity: capacity,
	}
}

// Get returns the value for key, decoding it on a miss. Failed decodes are
// not cached.
func (c *FIFOCache[V]) Get(key string, decode func(string) (V, error)) (V, error) {
	c.lock.RLock()
	v, ok := c.values[key]
	c.lock.RUnlock()
	if ok {
		return v, nil
	}

	out, err, _ := c.group.Do(key, func() (interface{}, error) {
		v, err := decode(key)
		if err != nil {
			return nil, err
		}
		c.lock.Lock()
		c.insert(key, v)
		c.lock.Unlock()
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return out.(V), nil
}

// insert requires the write lock
func (c *FIFOCache[V]) insert(key string, v V) {
	if _, ok := c.values[key]; ok {
		c.values[key] = v
		return
	}
	if c.capacity <= 0 {
		return
	}
	if len(c.order) >= c.capacity {
		delete(c.values, c.order[0])
		c.order = c.order[1:]
	}
	c.values[key] = v
	c.order = append(c.order, key)
}

// Contains reports whether key is held without decoding it
func (c *FIFOCache[V]) Contains(key string) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	_, ok := c.values[key]
	return ok
}

func (c *FIFOCache[V]) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return len(c.values)
}
