// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package confidential

import "strings"

// Capability is a set of rights over a handle
type Capability uint8

const (
	// Operate allows using the handle as an operand
	Operate Capability = 1 << iota
	// Decrypt allows requesting the plaintext through the gateway
	Decrypt

	AllCapabilities = Operate | Decrypt
)

// Has reports whether c contains every right in other
func (c Capability) Has(other Capability) bool {
	return other != 0 && c&other == other
}

// Valid reports whether c is non-empty and only uses known bits
func (c Capability) Valid() bool {
	return c != 0 && c&^AllCapabilities == 0
}

func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	if c&Operate != 0 {
		parts = append(parts, "operate")
	}
	if c&Decrypt != 0 {
		parts = append(parts, "decrypt")
	}
	if c&^AllCapabilities != 0 {
		parts = append(parts, "unknown")
	}
	return strings.Join(parts, "|")
}

// Scope is the lifetime of a grant
type Scope uint8

const (
	// Persistent grants survive across calls
	Persistent Scope = iota
	// Transient grants die at the end of the call that created them
	Transient
)

func (s Scope) String() string {
	switch s {
	case Persistent:
		return "persistent"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}
