// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package backend

import (
	"github.com/luxfi/geth/ethdb"

	"github.com/luxfi/confidential/cache"
)

var _ Backend = (*CachedBackend)(nil)

// CachedBackend serves reads through an LRU cache. Every key written by a
// batch is evicted once the batch is applied.
type CachedBackend struct {
	Backend
	values *cache.LRUCache[string, []byte]
}

// NewCachedBackend wraps b with a read cache of size entries
func NewCachedBackend(b Backend, size int) *CachedBackend {
	return &CachedBackend{
		Backend: b,
		values:  cache.NewLRUCache[string, []byte](size),
	}
}

func (c *CachedBackend) Get(key []byte) ([]byte, error) {
	return c.values.Get(string(key), func(k string) ([]byte, error) {
		return c.Backend.Get([]byte(k))
	})
}

func (c *CachedBackend) NewBatch() ethdb.Batch {
	return &cachedBatch{Batch: c.Backend.NewBatch(), values: c.values}
}

func (c *CachedBackend) NewBatchWithSize(size int) ethdb.Batch {
	return &cachedBatch{Batch: c.Backend.NewBatchWithSize(size), values: c.values}
}

type cachedBatch struct {
	ethdb.Batch
	values  *cache.LRUCache[string, []byte]
	touched []string
}

func (b *cachedBatch) Put(key []byte, value []byte) error {
	b.touched = append(b.touched, string(key))
	return b.Batch.Put(key, value)
}

func (b *cachedBatch) Delete(key []byte) error {
	b.touched = append(b.touched, string(key))
	return b.Batch.Delete(key)
}

func (b *cachedBatch) Write() error {
	err := b.Batch.Write()
	b.values.Invalidate(b.touched...)
	return err
}

func (b *cachedBatch) Reset() {
	b.Batch.Reset()
	b.touched = b.touched[:0]
}
