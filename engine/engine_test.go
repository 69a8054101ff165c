// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/confidential"
	"github.com/luxfi/confidential/backend"
	"github.com/luxfi/confidential/crypto/fhe"
	"github.com/luxfi/confidential/crypto/signature"
	"github.com/luxfi/confidential/host"
	"github.com/luxfi/confidential/registry"
	"github.com/luxfi/confidential/verifier"
)

var (
	program = common.HexToAddress("0x00000000000000000000000000000000000c0de1")
	alice   = common.HexToAddress("0x000000000000000000000000000000000000a11c")
	bob     = common.HexToAddress("0x000000000000000000000000000000000000b0b0")

	errBoom = errors.New("boom")
)

func newTestEngine(t *testing.T) (*Engine, *verifier.Prover) {
	attestor, err := signature.NewECDSASigner()
	require.NoError(t, err)
	v, err := signature.NewECDSAVerifier(attestor.PublicKey())
	require.NoError(t, err)

	scheme := fhe.NewMock()
	e, err := New(Config{
		Scheme:   scheme,
		Attestor: v,
		Backend:  backend.NewMemoryBackend(),
		Clock:    host.NewManualClock(1_000),
	})
	require.NoError(t, err)
	return e, verifier.NewProver(scheme, attestor)
}

func TestCallCommits(t *testing.T) {
	require := require.New(t)
	e, prover := newTestEngine(t)
	ctx := context.Background()

	in, err := prover.Encrypt(confidential.TypeUint32, uint256.NewInt(7), program, alice)
	require.NoError(err)

	var h confidential.Handle
	require.NoError(e.Call(ctx, host.Call{Contract: program, Caller: alice}, func(f *Frame) error {
		require.Equal(uint64(1_000), f.Now())
		var err error
		h, err = f.Ingest(in.Material, in.Proof)
		if err != nil {
			return err
		}
		return f.Grant(h.ID, program, confidential.Operate, confidential.Persistent)
	}))

	require.NoError(e.View(ctx, host.Call{Contract: program, Caller: alice}, func(f *Frame) error {
		got, err := f.Handle(h.ID)
		require.NoError(err)
		require.Equal(h, got)
		ok, err := f.Allowed(h.ID, program, confidential.Operate)
		require.NoError(err)
		require.True(ok)
		return nil
	}))
	require.Equal(1.0, testutil.ToFloat64(e.metrics.committed))
	require.Equal(1.0, testutil.ToFloat64(e.metrics.views))
}

func TestFailedCallRollsBackNonce(t *testing.T) {
	require := require.New(t)
	e, prover := newTestEngine(t)
	ctx := context.Background()
	call := host.Call{Contract: program, Caller: alice}

	in, err := prover.Encrypt(confidential.TypeUint8, uint256.NewInt(1), program, alice)
	require.NoError(err)

	var first confidential.Handle
	err = e.Call(ctx, call, func(f *Frame) error {
		var err error
		first, err = f.Ingest(in.Material, in.Proof)
		require.NoError(err)
		require.NoError(f.Grant(first.ID, program, confidential.Operate, confidential.Persistent))
		// a later step fails
		_, err = f.Apply(fhe.OpAdd, first.ID, ids.GenerateTestID())
		return err
	})
	require.ErrorIs(err, confidential.ErrMissingCapability)
	require.Equal(1.0, testutil.ToFloat64(e.metrics.aborted.WithLabelValues(confidential.ErrMissingCapability.Error())))

	require.NoError(e.View(ctx, call, func(f *Frame) error {
		_, err := f.Handle(first.ID)
		require.Error(err)
		return nil
	}))

	// the nonce was never consumed
	require.NoError(e.Call(ctx, call, func(f *Frame) error {
		_, err := f.Ingest(in.Material, in.Proof)
		return err
	}))
	err = e.Call(ctx, call, func(f *Frame) error {
		_, err := f.Ingest(in.Material, in.Proof)
		return err
	})
	require.ErrorIs(err, confidential.ErrReplayedNonce)
}

func TestTransientGrantEndsWithCall(t *testing.T) {
	require := require.New(t)
	e, _ := newTestEngine(t)
	ctx := context.Background()
	call := host.Call{Contract: program, Caller: alice}

	var h confidential.Handle
	require.NoError(e.Call(ctx, call, func(f *Frame) error {
		var err error
		h, err = f.Encrypt(confidential.TypeBool, uint256.NewInt(1))
		require.NoError(err)
		require.NoError(f.Grant(h.ID, alice, confidential.Decrypt, confidential.Transient))
		ok, err := f.Allowed(h.ID, alice, confidential.Decrypt)
		require.NoError(err)
		require.True(ok)
		return nil
	}))

	require.NoError(e.Call(ctx, call, func(f *Frame) error {
		ok, err := f.Allowed(h.ID, alice, confidential.Decrypt)
		require.NoError(err)
		require.False(ok)
		return nil
	}))
}

func TestViewIsReadOnly(t *testing.T) {
	require := require.New(t)
	e, prover := newTestEngine(t)
	ctx := context.Background()
	call := host.Call{Contract: program, Caller: bob}

	in, err := prover.Encrypt(confidential.TypeUint8, uint256.NewInt(1), program, bob)
	require.NoError(err)

	var derived confidential.Handle
	require.NoError(e.View(ctx, call, func(f *Frame) error {
		require.True(f.ReadOnly())
		_, err := f.Ingest(in.Material, in.Proof)
		require.ErrorIs(err, ErrReadOnly)
		require.ErrorIs(f.Storage().Put([]byte("k"), []byte{1}), ErrReadOnly)

		// derived values and transient grants are fine inside a view
		derived, err = f.Encrypt(confidential.TypeUint8, uint256.NewInt(3))
		require.NoError(err)
		require.NoError(f.Grant(derived.ID, bob, confidential.Decrypt, confidential.Transient))
		require.ErrorIs(f.Grant(derived.ID, bob, confidential.Decrypt, confidential.Persistent), ErrReadOnly)
		require.ErrorIs(f.RevokeAll(derived.ID), ErrReadOnly)
		return nil
	}))

	require.NoError(e.View(ctx, call, func(f *Frame) error {
		_, err := f.Handle(derived.ID)
		require.Error(err)
		return nil
	}))
}

func TestViewHandlesKeepTheirIDs(t *testing.T) {
	require := require.New(t)
	e, _ := newTestEngine(t)
	ctx := context.Background()
	call := host.Call{Contract: program, Caller: alice}

	var fromView confidential.Handle
	require.NoError(e.View(ctx, call, func(f *Frame) error {
		var err error
		fromView, err = f.Encrypt(confidential.TypeUint32, uint256.NewInt(1))
		return err
	}))

	var fromCall confidential.Handle
	require.NoError(e.Call(ctx, call, func(f *Frame) error {
		var err error
		fromCall, err = f.Encrypt(confidential.TypeUint32, uint256.NewInt(999))
		return err
	}))
	require.NotEqual(fromView.ID, fromCall.ID)

	// the committed id refers to the committed value only
	require.NoError(e.View(ctx, call, func(f *Frame) error {
		_, err := f.Handle(fromView.ID)
		require.ErrorIs(err, registry.ErrUnknownHandle)
		ct, err := f.Ciphertext(fromCall.ID)
		require.NoError(err)
		v, err := e.Scheme().Decrypt(ct)
		require.NoError(err)
		require.Equal(uint64(999), v.Uint64())
		return nil
	}))
}

func TestStorageIsPerProgram(t *testing.T) {
	require := require.New(t)
	e, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(e.Call(ctx, host.Call{Contract: program, Caller: alice}, func(f *Frame) error {
		return f.Storage().Put([]byte("k"), []byte{1})
	}))
	require.NoError(e.View(ctx, host.Call{Contract: alice, Caller: alice}, func(f *Frame) error {
		ok, err := f.Storage().Has([]byte("k"))
		require.NoError(err)
		require.False(ok)
		return nil
	}))
	require.NoError(e.View(ctx, host.Call{Contract: program, Caller: bob}, func(f *Frame) error {
		ok, err := f.Storage().Has([]byte("k"))
		require.NoError(err)
		require.True(ok)
		return nil
	}))
}

func TestCallErrorAborts(t *testing.T) {
	require := require.New(t)
	e, _ := newTestEngine(t)
	call := host.Call{Contract: program, Caller: alice}

	err := e.Call(context.Background(), call, func(f *Frame) error {
		require.NoError(f.Storage().Put([]byte("k"), []byte{1}))
		return errBoom
	})
	require.ErrorIs(err, errBoom)
	require.Equal(1.0, testutil.ToFloat64(e.metrics.aborted.WithLabelValues(kindInternal)))

	ctx, cancel := context.WithCancel(context.Background())
	err = e.Call(ctx, call, func(f *Frame) error {
		require.NoError(f.Storage().Put([]byte("k"), []byte{1}))
		cancel()
		return nil
	})
	require.ErrorIs(err, context.Canceled)

	require.NoError(e.View(context.Background(), call, func(f *Frame) error {
		ok, err := f.Storage().Has([]byte("k"))
		require.NoError(err)
		require.False(ok)
		return nil
	}))
}

func TestNewValidates(t *testing.T) {
	_, err := New(Config{Registerer: prometheus.NewRegistry()})
	require.Error(t, err)
}
