// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package backend holds the persisted state of the engine. Calls never
// write to a Backend directly: they write to a Tx, which is applied as a
// single batch or dropped.
package backend

import (
	"errors"
	"fmt"
	"io"

	"github.com/luxfi/geth/ethdb"
	"github.com/luxfi/geth/ethdb/leveldb"
	"github.com/luxfi/geth/ethdb/memorydb"
)

// ErrNotFound is returned by Get for a missing key
var ErrNotFound = errors.New("not found")

// KV is the read/write surface components persist through
type KV interface {
	ethdb.KeyValueReader
	ethdb.KeyValueWriter
}

// Backend is the durable store underneath all calls
type Backend interface {
	ethdb.KeyValueReader
	ethdb.Batcher
	io.Closer
}

// NewMemoryBackend returns a backend that lives as long as the process
func NewMemoryBackend() Backend {
	return memorydb.New()
}

// NewLevelDBBackend opens (or creates) a leveldb backend in dir
func NewLevelDBBackend(dir string, cacheMB int, handles int) (Backend, error) {
	db, err := leveldb.New(dir, cacheMB, handles, "confidential/db/", false)
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb at %s: %w", dir, err)
	}
	return db, nil
}

// ReadValue returns the value at key, reporting whether it exists
func ReadValue(r ethdb.KeyValueReader, key []byte) ([]byte, bool, error) {
	ok, err := r.Has(key)
	if err != nil || !ok {
		return nil, false, err
	}
	v, err := r.Get(key)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}
