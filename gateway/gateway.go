// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package gateway serves decryption requests on the client side of the
// engine. A plaintext only ever leaves sealed to the requester's key.
package gateway

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"golang.org/x/crypto/nacl/box"

	"github.com/luxfi/confidential"
	"github.com/luxfi/confidential/crypto/fhe"
	"github.com/luxfi/confidential/engine"
	"github.com/luxfi/confidential/host"
)

var errSealedValue = errors.New("cannot open sealed value")

// Gateway decrypts handles for principals holding Decrypt on them
type Gateway struct {
	engine *engine.Engine
	scheme fhe.Scheme
	log    log.Logger
}

func New(e *engine.Engine, log log.Logger) *Gateway {
	return &Gateway{
		engine: e,
		scheme: e.Scheme(),
		log:    log,
	}
}

// Reveal decrypts handle id for the caller of f, which must hold Decrypt on
// it within f. Transient grants made earlier in f count.
func (g *Gateway) Reveal(f *engine.Frame, id ids.ID, recipient *[32]byte) ([]byte, error) {
	ok, err := f.Allowed(id, f.Caller(), confidential.Decrypt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s may not decrypt %s", confidential.ErrMissingCapability, f.Caller(), id)
	}
	ct, err := f.Ciphertext(id)
	if err != nil {
		return nil, err
	}
	v, err := g.scheme.Decrypt(ct)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt %s: %w", id, err)
	}
	word := v.Bytes32()
	sealed, err := box.SealAnonymous(nil, word[:], recipient, rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to seal plaintext: %w", err)
	}
	g.log.Debug("served decryption",
		log.Stringer("handle", id),
		log.Stringer("requester", f.Caller()),
	)
	return sealed, nil
}

// Request decrypts a handle requester holds a persistent or public Decrypt
// grant on
func (g *Gateway) Request(ctx context.Context, requester common.Address, id ids.ID, recipient *[32]byte) ([]byte, error) {
	var sealed []byte
	err := g.engine.View(ctx, host.Call{Caller: requester}, func(f *engine.Frame) error {
		var err error
		sealed, err = g.Reveal(f, id, recipient)
		return err
	})
	return sealed, err
}

// GenerateKey creates a recipient key pair
func GenerateKey() (publicKey, privateKey *[32]byte, err error) {
	return box.GenerateKey(rand.Reader)
}

// Open recovers a plaintext sealed to publicKey
func Open(sealed []byte, publicKey, privateKey *[32]byte) (*uint256.Int, error) {
	word, ok := box.OpenAnonymous(nil, sealed, publicKey, privateKey)
	if !ok || len(word) != 32 {
		return nil, errSealedValue
	}
	return new(uint256.Int).SetBytes(word), nil
}
