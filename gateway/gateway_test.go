// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/confidential"
	"github.com/luxfi/confidential/acl"
	"github.com/luxfi/confidential/backend"
	"github.com/luxfi/confidential/crypto/fhe"
	"github.com/luxfi/confidential/crypto/signature"
	"github.com/luxfi/confidential/engine"
	"github.com/luxfi/confidential/host"
)

var (
	program = common.HexToAddress("0x00000000000000000000000000000000000c0de1")
	alice   = common.HexToAddress("0x000000000000000000000000000000000000a11c")
	bob     = common.HexToAddress("0x000000000000000000000000000000000000b0b0")
)

func newGateway(t *testing.T) (*engine.Engine, *Gateway) {
	attestor, err := signature.NewECDSASigner()
	require.NoError(t, err)
	v, err := signature.NewECDSAVerifier(attestor.PublicKey())
	require.NoError(t, err)
	e, err := engine.New(engine.Config{
		Scheme:   fhe.NewMock(),
		Attestor: v,
		Backend:  backend.NewMemoryBackend(),
		Clock:    host.NewManualClock(0),
	})
	require.NoError(t, err)
	return e, New(e, log.NewNoOpLogger())
}

func TestRequest(t *testing.T) {
	require := require.New(t)
	e, g := newGateway(t)
	ctx := context.Background()
	pub, priv, err := GenerateKey()
	require.NoError(err)

	var h confidential.Handle
	require.NoError(e.Call(ctx, host.Call{Contract: program, Caller: alice}, func(f *engine.Frame) error {
		var err error
		h, err = f.Encrypt(confidential.TypeUint32, uint256.NewInt(1500))
		require.NoError(err)
		return f.Grant(h.ID, alice, confidential.Decrypt, confidential.Persistent)
	}))

	sealed, err := g.Request(ctx, alice, h.ID, pub)
	require.NoError(err)
	v, err := Open(sealed, pub, priv)
	require.NoError(err)
	require.Equal(uint64(1500), v.Uint64())

	_, err = g.Request(ctx, bob, h.ID, pub)
	require.ErrorIs(err, confidential.ErrMissingCapability)

	otherPub, otherPriv, err := GenerateKey()
	require.NoError(err)
	_, err = Open(sealed, otherPub, otherPriv)
	require.ErrorIs(err, errSealedValue)
}

func TestPublicDecrypt(t *testing.T) {
	require := require.New(t)
	e, g := newGateway(t)
	ctx := context.Background()
	pub, priv, err := GenerateKey()
	require.NoError(err)

	var h confidential.Handle
	require.NoError(e.Call(ctx, host.Call{Contract: program, Caller: alice}, func(f *engine.Frame) error {
		var err error
		h, err = f.Encrypt(confidential.TypeBool, uint256.NewInt(1))
		require.NoError(err)
		return f.Grant(h.ID, acl.Public, confidential.Decrypt, confidential.Persistent)
	}))

	sealed, err := g.Request(ctx, bob, h.ID, pub)
	require.NoError(err)
	v, err := Open(sealed, pub, priv)
	require.NoError(err)
	require.Equal(uint64(1), v.Uint64())
}

func TestRevealWithinCall(t *testing.T) {
	require := require.New(t)
	e, g := newGateway(t)
	ctx := context.Background()
	pub, priv, err := GenerateKey()
	require.NoError(err)

	var (
		h      confidential.Handle
		sealed []byte
	)
	require.NoError(e.View(ctx, host.Call{Contract: program, Caller: bob}, func(f *engine.Frame) error {
		var err error
		h, err = f.Encrypt(confidential.TypeUint8, uint256.NewInt(42))
		require.NoError(err)
		require.NoError(f.Grant(h.ID, bob, confidential.Decrypt, confidential.Transient))
		sealed, err = g.Reveal(f, h.ID, pub)
		return err
	}))
	v, err := Open(sealed, pub, priv)
	require.NoError(err)
	require.Equal(uint64(42), v.Uint64())

	// neither the handle nor the grant outlived the view
	_, err = g.Request(ctx, bob, h.ID, pub)
	require.ErrorIs(err, confidential.ErrMissingCapability)
}
