// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package confidential

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
)

// ValueType is the plaintext kind an encrypted value carries
type ValueType uint8

const (
	TypeBool ValueType = iota
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeAddress
)

// HandleVersion is stamped into the last byte of every handle id
const HandleVersion = 0

func (t ValueType) String() string {
	switch t {
	case TypeBool:
		return "ebool"
	case TypeUint8:
		return "euint8"
	case TypeUint16:
		return "euint16"
	case TypeUint32:
		return "euint32"
	case TypeUint64:
		return "euint64"
	case TypeAddress:
		return "eaddress"
	default:
		return "unknown"
	}
}

// Valid reports whether t is one of the supported kinds
func (t ValueType) Valid() bool {
	return t <= TypeAddress
}

// Bits returns the plaintext width of t
func (t ValueType) Bits() int {
	switch t {
	case TypeBool:
		return 1
	case TypeUint8:
		return 8
	case TypeUint16:
		return 16
	case TypeUint32:
		return 32
	case TypeUint64:
		return 64
	case TypeAddress:
		return 160
	default:
		return 0
	}
}

// IsUint reports whether t is an unsigned integer kind
func (t ValueType) IsUint() bool {
	return t >= TypeUint8 && t <= TypeUint64
}

// Fits reports whether v is representable in t
func (t ValueType) Fits(v *uint256.Int) bool {
	if !t.Valid() || v == nil {
		return false
	}
	return v.BitLen() <= t.Bits()
}

// Mask returns 2^bits - 1 for t
func (t ValueType) Mask() *uint256.Int {
	m := new(uint256.Int).Lsh(uint256.NewInt(1), uint(t.Bits()))
	return m.SubUint64(m, 1)
}

// ParseValueType parses the names returned by ValueType.String
func ParseValueType(s string) (ValueType, error) {
	for t := TypeBool; t <= TypeAddress; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown value type %q", s)
}

// Handle references a ciphertext held on behalf of a consuming program.
// The plaintext is never visible through a Handle.
type Handle struct {
	ID     ids.ID
	Type   ValueType
	Origin common.Address
}

// IsZero reports whether h is the zero handle
func (h Handle) IsZero() bool {
	return h.ID == ids.Empty
}

func (h Handle) String() string {
	return fmt.Sprintf("%s(%s)", h.Type, h.ID)
}

// TypeOfID extracts the value type embedded in a handle id
func TypeOfID(id ids.ID) ValueType {
	return ValueType(id[30])
}
