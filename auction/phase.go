// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package auction

// Phase is the stage a sealed-bid auction is in
type Phase uint8

const (
	PhaseBidding Phase = iota
	PhaseReveal
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseBidding:
		return "bidding"
	case PhaseReveal:
		return "reveal"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Deadlines are the absolute timestamps at which bidding and reveal close
type Deadlines struct {
	Created uint64
	Bidding uint64
	Reveal  uint64
}

// PhaseAt returns the phase at now. Phases only move forward as now grows.
func PhaseAt(now uint64, d Deadlines) Phase {
	switch {
	case now < d.Bidding:
		return PhaseBidding
	case now < d.Reveal:
		return PhaseReveal
	default:
		return PhaseEnded
	}
}
