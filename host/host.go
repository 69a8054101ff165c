// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package host models the execution environment calls arrive from: it
// supplies caller identity, a monotonic timestamp and a total order over
// calls.
package host

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/luxfi/geth/common"
)

// Call identifies one invocation: which program runs and on whose behalf
type Call struct {
	Contract common.Address
	Caller   common.Address
}

// Clock supplies timestamps in seconds
type Clock interface {
	Now() uint64
}

var (
	_ Clock = SystemClock{}
	_ Clock = (*ManualClock)(nil)
)

// SystemClock reads wall-clock time
type SystemClock struct{}

func (SystemClock) Now() uint64 {
	return uint64(time.Now().Unix())
}

// ManualClock only moves when told to
type ManualClock struct {
	now atomic.Uint64
}

func NewManualClock(start uint64) *ManualClock {
	c := &ManualClock{}
	c.now.Store(start)
	return c
}

func (c *ManualClock) Now() uint64 {
	return c.now.Load()
}

// Set moves the clock to t. Moving it backwards is allowed; the sequencer
// never lets a call observe time going backwards.
func (c *ManualClock) Set(t uint64) {
	c.now.Store(t)
}

// Advance moves the clock forward by d seconds
func (c *ManualClock) Advance(d uint64) {
	c.now.Add(d)
}

// Sequencer runs calls one at a time and stamps each with a timestamp no
// earlier than that of the call before it
type Sequencer struct {
	lock  sync.Mutex
	clock Clock
	last  uint64
}

func NewSequencer(clock Clock) *Sequencer {
	return &Sequencer{clock: clock}
}

// Run waits for its turn and runs fn with the call's timestamp
func (s *Sequencer) Run(ctx context.Context, fn func(now uint64) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	now := max(s.clock.Now(), s.last)
	s.last = now
	return fn(now)
}

// Last returns the timestamp of the most recent call
func (s *Sequencer) Last() uint64 {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.last
}
