// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package auction is a sealed-bid ledger. Bids stay encrypted; once bidding
// closes they may be compared, and each comparison is itself encrypted.
package auction

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"

	"github.com/luxfi/confidential"
	"github.com/luxfi/confidential/backend"
	"github.com/luxfi/confidential/crypto/fhe"
	"github.com/luxfi/confidential/engine"
)

var (
	ErrAlreadyOpen      = errors.New("auction already open")
	ErrDeadlineOverflow = errors.New("auction deadline overflows")

	deadlinesKey = []byte("deadlines")
	bidCountKey  = []byte("bids")
	bidPrefix    = []byte("bid/")
)

// Bid is one ledger entry
type Bid struct {
	Bidder common.Address
	Handle ids.ID
}

// Auction is the sealed-bid program. Its methods run inside a call.
type Auction struct {
	bidType confidential.ValueType
}

// New returns an auction taking bids of type t
func New(t confidential.ValueType) *Auction {
	return &Auction{bidType: t}
}

// Open starts the auction at the call's timestamp
func (a *Auction) Open(f *engine.Frame, biddingDuration, revealDuration uint64) (Deadlines, error) {
	storage := f.Storage()
	opened, err := storage.Has(deadlinesKey)
	if err != nil {
		return Deadlines{}, err
	}
	if opened {
		return Deadlines{}, ErrAlreadyOpen
	}
	now := f.Now()
	bidding, carryBidding := bits.Add64(now, biddingDuration, 0)
	reveal, carryReveal := bits.Add64(bidding, revealDuration, 0)
	if carryBidding|carryReveal != 0 {
		return Deadlines{}, fmt.Errorf("%w: bidding %d, reveal %d at %d", ErrDeadlineOverflow, biddingDuration, revealDuration, now)
	}
	d := Deadlines{
		Created: now,
		Bidding: bidding,
		Reveal:  reveal,
	}
	raw, err := confidential.Codec.Marshal(confidential.CodecVersion, &d)
	if err != nil {
		return Deadlines{}, err
	}
	return d, storage.Put(deadlinesKey, raw)
}

// Deadlines returns the timing recorded by Open
func (a *Auction) Deadlines(f *engine.Frame) (Deadlines, error) {
	raw, found, err := backend.ReadValue(f.Storage(), deadlinesKey)
	if err != nil {
		return Deadlines{}, err
	}
	if !found {
		return Deadlines{}, fmt.Errorf("%w: auction not open", confidential.ErrWrongPhase)
	}
	var d Deadlines
	if _, err := confidential.Codec.Unmarshal(raw, &d); err != nil {
		return Deadlines{}, fmt.Errorf("corrupt deadlines: %w", err)
	}
	return d, nil
}

// Phase returns the phase at the call's timestamp
func (a *Auction) Phase(f *engine.Frame) (Phase, error) {
	d, err := a.Deadlines(f)
	if err != nil {
		return 0, err
	}
	return PhaseAt(f.Now(), d), nil
}

// SubmitBid appends the caller's bid and returns its index. A bidder may
// bid more than once.
func (a *Auction) SubmitBid(f *engine.Frame, material, proof []byte) (uint64, error) {
	phase, err := a.Phase(f)
	if err != nil {
		return 0, err
	}
	if phase != PhaseBidding {
		return 0, fmt.Errorf("%w: bidding is closed (%s)", confidential.ErrWrongPhase, phase)
	}

	h, err := f.Ingest(material, proof)
	if err != nil {
		return 0, err
	}
	if h.Type != a.bidType {
		return 0, fmt.Errorf("%w: bids are %s, submitted %s", confidential.ErrTypeMismatch, a.bidType, h.Type)
	}
	if err := f.Grant(h.ID, f.Self(), confidential.Operate, confidential.Persistent); err != nil {
		return 0, err
	}
	if err := f.Grant(h.ID, f.Caller(), confidential.Decrypt, confidential.Persistent); err != nil {
		return 0, err
	}

	storage := f.Storage()
	index, err := readCount(storage)
	if err != nil {
		return 0, err
	}
	raw, err := confidential.Codec.Marshal(confidential.CodecVersion, &Bid{Bidder: f.Caller(), Handle: h.ID})
	if err != nil {
		return 0, err
	}
	if err := storage.Put(bidKey(index), raw); err != nil {
		return 0, err
	}
	var next [8]byte
	binary.BigEndian.PutUint64(next[:], index+1)
	return index, storage.Put(bidCountKey, next[:])
}

// BidCount returns the number of bids recorded
func (a *Auction) BidCount(f *engine.Frame) (uint64, error) {
	return readCount(f.Storage())
}

// Bid returns the i-th bid
func (a *Auction) Bid(f *engine.Frame, i uint64) (Bid, error) {
	storage := f.Storage()
	count, err := readCount(storage)
	if err != nil {
		return Bid{}, err
	}
	if i >= count {
		return Bid{}, fmt.Errorf("%w: %d of %d bids", confidential.ErrInvalidIndex, i, count)
	}
	raw, err := storage.Get(bidKey(i))
	if err != nil {
		return Bid{}, err
	}
	var b Bid
	if _, err := confidential.Codec.Unmarshal(raw, &b); err != nil {
		return Bid{}, fmt.Errorf("corrupt bid %d: %w", i, err)
	}
	return b, nil
}

// CompareBid computes bid(i) > bid(j) once bidding has closed. The result
// stays encrypted; the caller may decrypt it until the call ends.
func (a *Auction) CompareBid(f *engine.Frame, i, j uint64) (confidential.Handle, error) {
	phase, err := a.Phase(f)
	if err != nil {
		return confidential.Handle{}, err
	}
	if phase == PhaseBidding {
		return confidential.Handle{}, fmt.Errorf("%w: bidding still open", confidential.ErrWrongPhase)
	}
	bi, err := a.Bid(f, i)
	if err != nil {
		return confidential.Handle{}, err
	}
	bj, err := a.Bid(f, j)
	if err != nil {
		return confidential.Handle{}, err
	}

	result, err := f.Apply(fhe.OpGt, bi.Handle, bj.Handle)
	if err != nil {
		return confidential.Handle{}, err
	}
	if err := f.Grant(result.ID, f.Caller(), confidential.Decrypt, confidential.Transient); err != nil {
		return confidential.Handle{}, err
	}
	return result, nil
}

func bidKey(i uint64) []byte {
	return binary.BigEndian.AppendUint64(append([]byte{}, bidPrefix...), i)
}

func readCount(kv backend.KV) (uint64, error) {
	raw, found, err := backend.ReadValue(kv, bidCountKey)
	if err != nil || !found {
		return 0, err
	}
	if len(raw) != 8 {
		return 0, errors.New("corrupt bid count")
	}
	return binary.BigEndian.Uint64(raw), nil
}
