// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry records which handles exist, their value type and the
// program they were created for. Ciphertexts are stored alongside as opaque
// blobs and are never interpreted here.
package registry

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"

	"github.com/luxfi/confidential"
	"github.com/luxfi/confidential/backend"
)

var (
	ErrUnknownHandle = errors.New("unknown handle")
	ErrHandleExists  = errors.New("handle already registered")
)

type record struct {
	Type   uint8
	Origin common.Address
}

// Registry is the handle table of one call
type Registry struct {
	kv    backend.KV
	views *ViewSequence
}

// ViewSequence numbers handles derived in read-only calls. Their writes are
// discarded, so they cannot advance the durable sequence without a later
// call reissuing the same ids.
type ViewSequence struct {
	epoch ids.ID
	next  atomic.Uint64
}

// NewViewSequence starts a sequence under a random epoch
func NewViewSequence() (*ViewSequence, error) {
	s := &ViewSequence{}
	if _, err := rand.Read(s.epoch[:]); err != nil {
		return nil, fmt.Errorf("failed to draw view epoch: %w", err)
	}
	return s, nil
}

// New returns a registry over kv
func New(kv backend.KV) *Registry {
	return &Registry{kv: kv}
}

// Register records h and its ciphertext. Ids are never reused.
func (r *Registry) Register(h confidential.Handle, ciphertext []byte) error {
	if !h.Type.Valid() || confidential.TypeOfID(h.ID) != h.Type {
		return fmt.Errorf("handle %s carries an inconsistent type", h.ID)
	}
	key := backend.HandleKey(h.ID)
	exists, err := r.kv.Has(key)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrHandleExists, h.ID)
	}
	meta, err := confidential.Codec.Marshal(confidential.CodecVersion, &record{
		Type:   uint8(h.Type),
		Origin: h.Origin,
	})
	if err != nil {
		return fmt.Errorf("failed to encode handle: %w", err)
	}
	if err := r.kv.Put(key, meta); err != nil {
		return err
	}
	return r.kv.Put(backend.CiphertextKey(h.ID), ciphertext)
}

// Lookup returns the handle registered under id
func (r *Registry) Lookup(id ids.ID) (confidential.Handle, error) {
	meta, found, err := backend.ReadValue(r.kv, backend.HandleKey(id))
	if err != nil {
		return confidential.Handle{}, err
	}
	if !found {
		return confidential.Handle{}, fmt.Errorf("%w: %s", ErrUnknownHandle, id)
	}
	var rec record
	if _, err := confidential.Codec.Unmarshal(meta, &rec); err != nil {
		return confidential.Handle{}, fmt.Errorf("failed to decode handle %s: %w", id, err)
	}
	return confidential.Handle{
		ID:     id,
		Type:   confidential.ValueType(rec.Type),
		Origin: rec.Origin,
	}, nil
}

// Exists reports whether id is registered
func (r *Registry) Exists(id ids.ID) (bool, error) {
	return r.kv.Has(backend.HandleKey(id))
}

// Ciphertext returns the blob backing id
func (r *Registry) Ciphertext(id ids.ID) ([]byte, error) {
	ct, found, err := backend.ReadValue(r.kv, backend.CiphertextKey(id))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHandle, id)
	}
	return ct, nil
}

// WithViewSequence returns a registry over the same state that allocates
// derived ids from s
func (r *Registry) WithViewSequence(s *ViewSequence) *Registry {
	return &Registry{kv: r.kv, views: s}
}

// NextDerivedID allocates a fresh id for a handle derived on behalf of origin
func (r *Registry) NextDerivedID(origin common.Address, t confidential.ValueType) (ids.ID, error) {
	if r.views != nil {
		seq := r.views.next.Add(1) - 1
		return confidential.ViewHandleID(origin, r.views.epoch, seq, t), nil
	}
	var seq uint64
	raw, found, err := backend.ReadValue(r.kv, backend.SequenceKey)
	if err != nil {
		return ids.Empty, err
	}
	if found {
		if len(raw) != 8 {
			return ids.Empty, errors.New("corrupt handle sequence")
		}
		seq = binary.BigEndian.Uint64(raw)
	}
	var next [8]byte
	binary.BigEndian.PutUint64(next[:], seq+1)
	if err := r.kv.Put(backend.SequenceKey, next[:]); err != nil {
		return ids.Empty, err
	}
	return confidential.DerivedHandleID(origin, seq, t), nil
}
