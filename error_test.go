// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package confidential

import (
	"errors"
	"fmt"
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int32
		kind error
	}{
		{"sentinel", ErrReplayedNonce, CodeReplayedNonce, ErrReplayedNonce},
		{"wrapped", fmt.Errorf("%w: handle", ErrMissingCapability), CodeMissingCapability, ErrMissingCapability},
		{"wire form", &Error{Code: CodeWrongPhase, Message: "x"}, CodeWrongPhase, ErrWrongPhase},
		{"unknown", errors.New("disk full"), CodeInternal, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			require.Equal(tt.code, CodeOf(tt.err))
			require.Equal(tt.kind, KindOf(tt.err))
		})
	}
}

func TestNewError(t *testing.T) {
	require := require.New(t)

	require.Nil(NewError(nil))

	wire := NewError(fmt.Errorf("%w: bid 7", ErrInvalidIndex))
	require.Equal(CodeInvalidIndex, wire.Code)
	require.ErrorIs(wire, ErrInvalidIndex)
	require.NotErrorIs(wire, ErrWrongPhase)
}

func TestInputProofWireForm(t *testing.T) {
	require := require.New(t)

	p := &InputProof{
		Consumer:    common.HexToAddress("0x0a"),
		Submitter:   common.HexToAddress("0x0b"),
		Nonce:       ids.ID{7},
		Type:        TypeUint16,
		Attestation: []byte{1, 2, 3},
	}
	parsed, err := ParseInputProof(p.Bytes())
	require.NoError(err)
	require.Equal(p, parsed)
	require.Equal(p.Digest([]byte("m")), parsed.Digest([]byte("m")))
	require.NotEqual(p.Digest([]byte("m")), p.Digest([]byte("n")))

	_, err = ParseInputProof([]byte{0xff})
	require.ErrorIs(err, ErrInvalidProof)
}
