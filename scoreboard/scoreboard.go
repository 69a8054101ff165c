// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package scoreboard keeps one encrypted score per player. Only aggregate
// counters are kept in the clear.
package scoreboard

import (
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"

	"github.com/luxfi/confidential"
	"github.com/luxfi/confidential/backend"
	"github.com/luxfi/confidential/crypto/fhe"
	"github.com/luxfi/confidential/engine"
)

var (
	scorePrefix    = []byte("score/")
	playersKey     = []byte("players")
	submissionsKey = []byte("submissions")
)

// PlaintextAggregate is what the ledger reveals about all players together
type PlaintextAggregate struct {
	// Sum of submissions ever accepted
	Sum uint64
	// Count of players currently holding a score
	Count uint64
}

// Scoreboard is the score ledger program. Its methods run inside a call.
type Scoreboard struct {
	scoreType confidential.ValueType
}

// New returns a ledger holding scores of type t
func New(t confidential.ValueType) *Scoreboard {
	return &Scoreboard{scoreType: t}
}

// Submit stores the caller's score, replacing any previous one. The program
// may operate on the new score and the caller may decrypt it.
func (s *Scoreboard) Submit(f *engine.Frame, material, proof []byte) (confidential.Handle, error) {
	h, err := f.Ingest(material, proof)
	if err != nil {
		return confidential.Handle{}, err
	}
	if h.Type != s.scoreType {
		return confidential.Handle{}, fmt.Errorf("%w: score is %s, submitted %s", confidential.ErrTypeMismatch, s.scoreType, h.Type)
	}
	if err := f.Grant(h.ID, f.Self(), confidential.Operate, confidential.Persistent); err != nil {
		return confidential.Handle{}, err
	}
	if err := f.Grant(h.ID, f.Caller(), confidential.Decrypt, confidential.Persistent); err != nil {
		return confidential.Handle{}, err
	}

	storage := f.Storage()
	key := scoreKey(f.Caller())
	registered, err := storage.Has(key)
	if err != nil {
		return confidential.Handle{}, err
	}
	if err := storage.Put(key, h.ID[:]); err != nil {
		return confidential.Handle{}, err
	}
	if !registered {
		if err := addCounter(storage, playersKey, 1); err != nil {
			return confidential.Handle{}, err
		}
	}
	if err := addCounter(storage, submissionsKey, 1); err != nil {
		return confidential.Handle{}, err
	}
	return h, nil
}

// Reset removes the caller's score
func (s *Scoreboard) Reset(f *engine.Frame) error {
	storage := f.Storage()
	key := scoreKey(f.Caller())
	registered, err := storage.Has(key)
	if err != nil {
		return err
	}
	if !registered {
		return fmt.Errorf("%w: %s", confidential.ErrNotRegistered, f.Caller())
	}
	if err := storage.Delete(key); err != nil {
		return err
	}
	return addCounter(storage, playersKey, -1)
}

// ScoreOf returns the handle of player's score
func (s *Scoreboard) ScoreOf(f *engine.Frame, player common.Address) (confidential.Handle, error) {
	raw, found, err := backend.ReadValue(f.Storage(), scoreKey(player))
	if err != nil {
		return confidential.Handle{}, err
	}
	if !found {
		return confidential.Handle{}, fmt.Errorf("%w: %s", confidential.ErrNotRegistered, player)
	}
	id, err := ids.ToID(raw)
	if err != nil {
		return confidential.Handle{}, fmt.Errorf("corrupt score of %s: %w", player, err)
	}
	return f.Handle(id)
}

// CompareAgainstThreshold computes score(player) >= threshold. The caller
// may decrypt the result until the call ends. A threshold wider than the
// score type cannot be reached, so the result is an encrypted false.
func (s *Scoreboard) CompareAgainstThreshold(f *engine.Frame, player common.Address, threshold uint64) (confidential.Handle, error) {
	score, err := s.ScoreOf(f, player)
	if err != nil {
		return confidential.Handle{}, err
	}
	value := uint256.NewInt(threshold)
	if !s.scoreType.Fits(value) {
		unreachable, err := f.Encrypt(confidential.TypeBool, uint256.NewInt(0))
		if err != nil {
			return confidential.Handle{}, err
		}
		if err := f.Grant(unreachable.ID, f.Caller(), confidential.Decrypt, confidential.Transient); err != nil {
			return confidential.Handle{}, err
		}
		return unreachable, nil
	}
	bound, err := f.Encrypt(s.scoreType, value)
	if err != nil {
		return confidential.Handle{}, err
	}
	if err := f.Grant(bound.ID, f.Self(), confidential.Operate, confidential.Transient); err != nil {
		return confidential.Handle{}, err
	}
	return s.compare(f, fhe.OpGte, score.ID, bound.ID)
}

// CompareScores computes score(a) > score(b). The caller may decrypt the
// result until the call ends.
func (s *Scoreboard) CompareScores(f *engine.Frame, a, b common.Address) (confidential.Handle, error) {
	sa, err := s.ScoreOf(f, a)
	if err != nil {
		return confidential.Handle{}, err
	}
	sb, err := s.ScoreOf(f, b)
	if err != nil {
		return confidential.Handle{}, err
	}
	return s.compare(f, fhe.OpGt, sa.ID, sb.ID)
}

// Stats returns the plaintext aggregates
func (s *Scoreboard) Stats(f *engine.Frame) (PlaintextAggregate, error) {
	storage := f.Storage()
	players, err := readCounter(storage, playersKey)
	if err != nil {
		return PlaintextAggregate{}, err
	}
	submissions, err := readCounter(storage, submissionsKey)
	if err != nil {
		return PlaintextAggregate{}, err
	}
	return PlaintextAggregate{Sum: submissions, Count: players}, nil
}

func (s *Scoreboard) compare(f *engine.Frame, op fhe.Operation, a, b ids.ID) (confidential.Handle, error) {
	result, err := f.Apply(op, a, b)
	if err != nil {
		return confidential.Handle{}, err
	}
	if err := f.Grant(result.ID, f.Caller(), confidential.Decrypt, confidential.Transient); err != nil {
		return confidential.Handle{}, err
	}
	return result, nil
}

func scoreKey(player common.Address) []byte {
	return append(append([]byte{}, scorePrefix...), player[:]...)
}

func readCounter(kv backend.KV, key []byte) (uint64, error) {
	raw, found, err := backend.ReadValue(kv, key)
	if err != nil || !found {
		return 0, err
	}
	if len(raw) != 8 {
		return 0, fmt.Errorf("corrupt counter %q", key)
	}
	return binary.BigEndian.Uint64(raw), nil
}

func addCounter(kv backend.KV, key []byte, delta int64) error {
	v, err := readCounter(kv, key)
	if err != nil {
		return err
	}
	var out [8]byte
	binary.BigEndian.PutUint64(out[:], uint64(int64(v)+delta))
	return kv.Put(key, out[:])
}
