package fhe

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/confidential"
)

func TestMockEvaluate(t *testing.T) {
	m := NewMock()
	enc := func(t *testing.T, typ confidential.ValueType, v uint64) []byte {
		b, err := m.Encrypt(typ, uint256.NewInt(v))
		require.NoError(t, err)
		return b
	}

	tests := []struct {
		name     string
		op       Operation
		typ      confidential.ValueType
		a, b     uint64
		expected uint64
	}{
		{"add", OpAdd, confidential.TypeUint32, 1500, 500, 2000},
		{"add wraps", OpAdd, confidential.TypeUint8, 250, 10, 4},
		{"sub", OpSub, confidential.TypeUint16, 10, 3, 7},
		{"sub wraps", OpSub, confidential.TypeUint8, 0, 1, 255},
		{"eq true", OpEq, confidential.TypeUint64, 9, 9, 1},
		{"eq false", OpEq, confidential.TypeUint64, 9, 8, 0},
		{"gt", OpGt, confidential.TypeUint32, 2000, 1500, 1},
		{"gte equal", OpGte, confidential.TypeUint32, 1000, 1000, 1},
		{"lt", OpLt, confidential.TypeUint32, 1000, 1000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			result := tt.op.ResultType(tt.typ, tt.typ)
			out, err := m.Evaluate(tt.op, result, enc(t, tt.typ, tt.a), enc(t, tt.typ, tt.b))
			require.NoError(err)
			require.NoError(m.Validate(result, out))

			v, err := m.Decrypt(out)
			require.NoError(err)
			require.Equal(tt.expected, v.Uint64())
		})
	}
}

func TestMockConvertWidth(t *testing.T) {
	require := require.New(t)
	m := NewMock()

	in, err := m.Encrypt(confidential.TypeUint16, uint256.NewInt(0x1234))
	require.NoError(err)

	out, err := m.Evaluate(OpConvertWidth, confidential.TypeUint8, in)
	require.NoError(err)
	v, err := m.Decrypt(out)
	require.NoError(err)
	require.Equal(uint64(0x34), v.Uint64())

	out, err = m.Evaluate(OpConvertWidth, confidential.TypeBool, in)
	require.NoError(err)
	v, err = m.Decrypt(out)
	require.NoError(err)
	require.Equal(uint64(1), v.Uint64())
}

func TestMockRejectsMalformed(t *testing.T) {
	require := require.New(t)
	m := NewMock()

	_, err := m.Encrypt(confidential.TypeUint8, uint256.NewInt(256))
	require.ErrorIs(err, ErrInvalidCiphertext)

	require.ErrorIs(m.Validate(confidential.TypeUint8, []byte{1, 2, 3}), ErrInvalidCiphertext)

	b, err := m.Encrypt(confidential.TypeUint8, uint256.NewInt(1))
	require.NoError(err)
	require.ErrorIs(m.Validate(confidential.TypeUint16, b), ErrInvalidCiphertext)

	c, err := m.Encrypt(confidential.TypeUint16, uint256.NewInt(1))
	require.NoError(err)
	_, err = m.Evaluate(OpAdd, confidential.TypeUint8, b, c)
	require.ErrorIs(err, ErrIncompatibleCiphertexts)
}

func TestOperationSupports(t *testing.T) {
	require := require.New(t)

	require.True(OpAdd.Supports(confidential.TypeUint64, 0))
	require.False(OpAdd.Supports(confidential.TypeBool, 0))
	require.False(OpGt.Supports(confidential.TypeAddress, 0))
	require.True(OpEq.Supports(confidential.TypeAddress, 0))
	require.True(OpConvertWidth.Supports(confidential.TypeUint8, confidential.TypeUint64))
	require.False(OpConvertWidth.Supports(confidential.TypeAddress, confidential.TypeUint64))
	require.Equal(confidential.TypeBool, OpGte.ResultType(confidential.TypeUint32, 0))
	require.Equal(confidential.TypeUint32, OpSub.ResultType(confidential.TypeUint32, 0))
}
