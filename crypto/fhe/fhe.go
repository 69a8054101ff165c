// Package fhe defines the boundary to the homomorphic cryptosystem.
// Ciphertexts cross it as opaque byte blobs; nothing on this side of the
// boundary interprets them.
package fhe

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/luxfi/confidential"
)

// Scheme represents an FHE coprocessor
type Scheme interface {
	// Encrypt encrypts a plaintext under the network key. Used by clients
	// building inputs and for trivially encrypted constants.
	Encrypt(t confidential.ValueType, plaintext *uint256.Int) ([]byte, error)

	// Validate checks that material is a well-formed ciphertext of type t
	Validate(t confidential.ValueType, material []byte) error

	// Evaluate performs homomorphic evaluation on encrypted operands and
	// returns a ciphertext of the result type
	Evaluate(op Operation, result confidential.ValueType, operands ...[]byte) ([]byte, error)

	// Decrypt is only reachable from the decryption gateway
	Decrypt(ciphertext []byte) (*uint256.Int, error)
}

// Operation represents a homomorphic operation
type Operation uint8

const (
	OpAdd Operation = iota
	OpSub
	OpEq
	OpGt
	OpGte
	OpLt
	OpConvertWidth
)

func (o Operation) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpEq:
		return "eq"
	case OpGt:
		return "gt"
	case OpGte:
		return "gte"
	case OpLt:
		return "lt"
	case OpConvertWidth:
		return "convert"
	default:
		return "unknown"
	}
}

// Valid reports whether o is a known operation
func (o Operation) Valid() bool {
	return o <= OpConvertWidth
}

// Arity returns the number of operands o takes
func (o Operation) Arity() int {
	if o == OpConvertWidth {
		return 1
	}
	return 2
}

// IsComparison reports whether o yields a boolean
func (o Operation) IsComparison() bool {
	switch o {
	case OpEq, OpGt, OpGte, OpLt:
		return true
	default:
		return false
	}
}

// Supports reports whether o is defined on operands of type t. For
// OpConvertWidth, to is the target type.
func (o Operation) Supports(t, to confidential.ValueType) bool {
	switch o {
	case OpAdd, OpSub, OpGt, OpGte, OpLt:
		return t.IsUint()
	case OpEq:
		return t.Valid()
	case OpConvertWidth:
		return (t.IsUint() || t == confidential.TypeBool) &&
			(to.IsUint() || to == confidential.TypeBool)
	default:
		return false
	}
}

// ResultType returns the type o produces from operands of type t.
// Arithmetic preserves width, comparisons yield a boolean and a width
// conversion yields its target.
func (o Operation) ResultType(t, to confidential.ValueType) confidential.ValueType {
	switch {
	case o.IsComparison():
		return confidential.TypeBool
	case o == OpConvertWidth:
		return to
	default:
		return t
	}
}

var (
	// ErrInvalidCiphertext is returned when ciphertext is malformed
	ErrInvalidCiphertext = errors.New("invalid ciphertext")

	// ErrIncompatibleCiphertexts is returned when ciphertexts can't be combined
	ErrIncompatibleCiphertexts = errors.New("incompatible ciphertexts")

	// ErrUnsupportedOperation is returned when a scheme cannot evaluate an operation
	ErrUnsupportedOperation = errors.New("operation not supported by scheme")
)
