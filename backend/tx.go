// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package backend

import (
	"fmt"

	"github.com/luxfi/geth/ethdb"
)

var _ KV = (*Tx)(nil)

type pending struct {
	value   []byte
	deleted bool
}

// Tx buffers the writes of one call on top of a Backend. Reads observe the
// buffered writes. Nothing reaches the Backend until Commit.
type Tx struct {
	base   Backend
	writes map[string]pending
	done   bool
}

// NewTx opens a write overlay on b
func NewTx(b Backend) *Tx {
	return &Tx{
		base:   b,
		writes: make(map[string]pending),
	}
}

func (t *Tx) Has(key []byte) (bool, error) {
	if p, ok := t.writes[string(key)]; ok {
		return !p.deleted, nil
	}
	return t.base.Has(key)
}

func (t *Tx) Get(key []byte) ([]byte, error) {
	if p, ok := t.writes[string(key)]; ok {
		if p.deleted {
			return nil, ErrNotFound
		}
		return p.value, nil
	}
	return t.base.Get(key)
}

func (t *Tx) Put(key []byte, value []byte) error {
	if t.done {
		return errTxClosed
	}
	v := make([]byte, len(value))
	copy(v, value)
	t.writes[string(key)] = pending{value: v}
	return nil
}

func (t *Tx) Delete(key []byte) error {
	if t.done {
		return errTxClosed
	}
	t.writes[string(key)] = pending{deleted: true}
	return nil
}

// Dirty returns the number of buffered writes
func (t *Tx) Dirty() int {
	return len(t.writes)
}

// Commit applies every buffered write to the backend as one batch
func (t *Tx) Commit() error {
	if t.done {
		return errTxClosed
	}
	t.done = true
	if len(t.writes) == 0 {
		return nil
	}

	batch := t.base.NewBatchWithSize(len(t.writes))
	for k, p := range t.writes {
		if err := apply(batch, []byte(k), p); err != nil {
			return fmt.Errorf("failed to stage write: %w", err)
		}
	}
	if err := batch.Write(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	t.writes = nil
	return nil
}

// Discard drops every buffered write. It is safe to call after Commit.
func (t *Tx) Discard() {
	t.done = true
	t.writes = nil
}

func apply(w ethdb.KeyValueWriter, key []byte, p pending) error {
	if p.deleted {
		return w.Delete(key)
	}
	return w.Put(key, p.value)
}
