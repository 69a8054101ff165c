// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package verifier

import (
	"sync"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"

	"github.com/luxfi/confidential/backend"
)

// NonceSet is the append-only record of consumed input nonces
type NonceSet interface {
	Consumed(consumer, submitter common.Address, nonce ids.ID) (bool, error)
	Consume(consumer, submitter common.Address, nonce ids.ID) error
}

var (
	_ NonceSet = (*KVNonceSet)(nil)
	_ NonceSet = (*MemoryNonceSet)(nil)
)

var consumedMarker = []byte{1}

// KVNonceSet persists consumption records in program state. Records written
// through a discarded call disappear with it.
type KVNonceSet struct {
	kv backend.KV
}

func NewKVNonceSet(kv backend.KV) *KVNonceSet {
	return &KVNonceSet{kv: kv}
}

func (s *KVNonceSet) Consumed(consumer, submitter common.Address, nonce ids.ID) (bool, error) {
	return s.kv.Has(backend.NonceKey(consumer, submitter, nonce))
}

func (s *KVNonceSet) Consume(consumer, submitter common.Address, nonce ids.ID) error {
	return s.kv.Put(backend.NonceKey(consumer, submitter, nonce), consumedMarker)
}

type nonceKey struct {
	consumer  common.Address
	submitter common.Address
	nonce     ids.ID
}

// MemoryNonceSet keeps consumption records in memory. It is safe for
// concurrent use.
type MemoryNonceSet struct {
	lock     sync.RWMutex
	consumed map[nonceKey]struct{}
}

func NewMemoryNonceSet() *MemoryNonceSet {
	return &MemoryNonceSet{consumed: make(map[nonceKey]struct{})}
}

func (s *MemoryNonceSet) Consumed(consumer, submitter common.Address, nonce ids.ID) (bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	_, ok := s.consumed[nonceKey{consumer, submitter, nonce}]
	return ok, nil
}

func (s *MemoryNonceSet) Consume(consumer, submitter common.Address, nonce ids.ID) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.consumed[nonceKey{consumer, submitter, nonce}] = struct{}{}
	return nil
}

// Len returns the number of consumed nonces
func (s *MemoryNonceSet) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.consumed)
}
