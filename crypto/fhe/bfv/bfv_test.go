// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package bfv

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/lattigo/v4/bfv"

	"github.com/luxfi/confidential"
	"github.com/luxfi/confidential/crypto/fhe"
)

func TestAddSub(t *testing.T) {
	if testing.Short() {
		t.Skip("bfv key generation is slow")
	}
	require := require.New(t)

	s, err := New()
	require.NoError(err)

	a, err := s.Encrypt(confidential.TypeUint8, uint256.NewInt(200))
	require.NoError(err)
	b, err := s.Encrypt(confidential.TypeUint8, uint256.NewInt(60))
	require.NoError(err)
	require.NoError(s.Validate(confidential.TypeUint8, a))
	require.ErrorIs(s.Validate(confidential.TypeUint16, a), fhe.ErrInvalidCiphertext)

	sum, err := s.Evaluate(fhe.OpAdd, confidential.TypeUint8, a, b)
	require.NoError(err)
	v, err := s.Decrypt(sum)
	require.NoError(err)
	require.Equal(uint64(260%256), v.Uint64())

	diff, err := s.Evaluate(fhe.OpSub, confidential.TypeUint8, a, b)
	require.NoError(err)
	v, err = s.Decrypt(diff)
	require.NoError(err)
	require.Equal(uint64(140), v.Uint64())
}

func TestComparisonUnsupported(t *testing.T) {
	if testing.Short() {
		t.Skip("bfv key generation is slow")
	}
	require := require.New(t)

	s, err := New()
	require.NoError(err)

	a, err := s.Encrypt(confidential.TypeUint8, uint256.NewInt(1))
	require.NoError(err)

	_, err = s.Evaluate(fhe.OpGt, confidential.TypeBool, a, a)
	require.ErrorIs(err, fhe.ErrUnsupportedOperation)

	_, err = s.Encrypt(confidential.TypeUint64, uint256.NewInt(1))
	require.ErrorIs(err, fhe.ErrUnsupportedOperation)
}

func TestWrapsModuloWidth(t *testing.T) {
	if testing.Short() {
		t.Skip("bfv key generation is slow")
	}
	s, err := New()
	require.NoError(t, err)

	tests := []struct {
		name     string
		op       fhe.Operation
		a, b     uint64
		expected uint64
	}{
		{"add in range", fhe.OpAdd, 100, 27, 127},
		{"add overflows", fhe.OpAdd, 255, 2, 1},
		{"add max", fhe.OpAdd, 255, 255, 254},
		{"sub underflows", fhe.OpSub, 1, 2, 255},
		{"sub min", fhe.OpSub, 0, 255, 1},
		{"sub to zero", fhe.OpSub, 9, 9, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			a, err := s.Encrypt(confidential.TypeUint8, uint256.NewInt(tt.a))
			require.NoError(err)
			b, err := s.Encrypt(confidential.TypeUint8, uint256.NewInt(tt.b))
			require.NoError(err)
			out, err := s.Evaluate(tt.op, confidential.TypeUint8, a, b)
			require.NoError(err)
			v, err := s.Decrypt(out)
			require.NoError(err)
			require.Equal(tt.expected, v.Uint64())
		})
	}
}

func TestLift(t *testing.T) {
	require := require.New(t)

	params, err := bfv.NewParametersFromLiteral(bfv.PN12QP109)
	require.NoError(err)
	s := &Scheme{params: params}
	T := params.T()

	require.Equal(uint64(4), s.lift(260, confidential.TypeUint8).Uint64())
	require.Equal(uint64(255), s.lift(T-1, confidential.TypeUint8).Uint64())
	require.Equal(uint64(1), s.lift(T-255, confidential.TypeUint8).Uint64())
	require.Equal(uint64(0), s.lift(0, confidential.TypeUint8).Uint64())

	require.True(s.supportsType(confidential.TypeUint8))
	require.True(s.supportsType(confidential.TypeBool))
	require.False(s.supportsType(confidential.TypeUint16))
	require.False(s.supportsType(confidential.TypeAddress))
}
