package fhe

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/luxfi/confidential"
)

const (
	mockMagic   = 0xfe
	mockBlobLen = 2 + 32
)

var _ Scheme = (*Mock)(nil)

// Mock is a deterministic stand-in for a coprocessor. Its "ciphertexts" are
// the plaintext tagged with the value type. It must never back real data.
type Mock struct{}

// NewMock returns the tagged-plaintext scheme
func NewMock() *Mock {
	return &Mock{}
}

func (*Mock) Encrypt(t confidential.ValueType, plaintext *uint256.Int) ([]byte, error) {
	if !t.Fits(plaintext) {
		return nil, fmt.Errorf("%w: value does not fit %s", ErrInvalidCiphertext, t)
	}
	return mockBlob(t, plaintext), nil
}

func (m *Mock) Validate(t confidential.ValueType, material []byte) error {
	got, v, err := m.open(material)
	if err != nil {
		return err
	}
	if got != t {
		return fmt.Errorf("%w: ciphertext is %s, declared %s", ErrInvalidCiphertext, got, t)
	}
	if !t.Fits(v) {
		return fmt.Errorf("%w: value out of range for %s", ErrInvalidCiphertext, t)
	}
	return nil
}

func (m *Mock) Evaluate(op Operation, result confidential.ValueType, operands ...[]byte) ([]byte, error) {
	if !op.Valid() || len(operands) != op.Arity() {
		return nil, fmt.Errorf("%w: %s with %d operands", ErrUnsupportedOperation, op, len(operands))
	}
	types := make([]confidential.ValueType, len(operands))
	values := make([]*uint256.Int, len(operands))
	for i, operand := range operands {
		t, v, err := m.open(operand)
		if err != nil {
			return nil, err
		}
		types[i], values[i] = t, v
	}
	if len(types) == 2 && types[0] != types[1] {
		return nil, ErrIncompatibleCiphertexts
	}

	var out *uint256.Int
	switch op {
	case OpAdd:
		out = new(uint256.Int).Add(values[0], values[1])
		out.And(out, types[0].Mask())
	case OpSub:
		out = new(uint256.Int).Sub(values[0], values[1])
		out.And(out, types[0].Mask())
	case OpEq:
		out = boolValue(values[0].Eq(values[1]))
	case OpGt:
		out = boolValue(values[0].Gt(values[1]))
	case OpGte:
		out = boolValue(!values[0].Lt(values[1]))
	case OpLt:
		out = boolValue(values[0].Lt(values[1]))
	case OpConvertWidth:
		if result == confidential.TypeBool {
			out = boolValue(!values[0].IsZero())
		} else {
			out = new(uint256.Int).And(values[0], result.Mask())
		}
	}
	return mockBlob(result, out), nil
}

func (m *Mock) Decrypt(ciphertext []byte) (*uint256.Int, error) {
	_, v, err := m.open(ciphertext)
	return v, err
}

func (*Mock) open(blob []byte) (confidential.ValueType, *uint256.Int, error) {
	if len(blob) != mockBlobLen || blob[0] != mockMagic {
		return 0, nil, ErrInvalidCiphertext
	}
	t := confidential.ValueType(blob[1])
	if !t.Valid() {
		return 0, nil, ErrInvalidCiphertext
	}
	return t, new(uint256.Int).SetBytes(blob[2:]), nil
}

func mockBlob(t confidential.ValueType, v *uint256.Int) []byte {
	blob := make([]byte, 2, mockBlobLen)
	blob[0] = mockMagic
	blob[1] = byte(t)
	word := v.Bytes32()
	return append(blob, word[:]...)
}

func boolValue(b bool) *uint256.Int {
	if b {
		return uint256.NewInt(1)
	}
	return uint256.NewInt(0)
}
