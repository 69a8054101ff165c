// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package verifier

import (
	"crypto/rand"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"

	"github.com/luxfi/confidential"
	"github.com/luxfi/confidential/crypto/fhe"
	"github.com/luxfi/confidential/crypto/signature"
)

// Input is an encrypted value ready to be submitted
type Input struct {
	Material []byte
	Proof    []byte
	Nonce    ids.ID
}

// Prover builds inputs on the client side: it encrypts under the network
// key and obtains an attestation binding the ciphertext to one call.
type Prover struct {
	scheme   fhe.Scheme
	attestor signature.Signer
}

func NewProver(scheme fhe.Scheme, attestor signature.Signer) *Prover {
	return &Prover{scheme: scheme, attestor: attestor}
}

// Encrypt produces an input for submitter calling into consumer under a
// fresh random nonce
func (p *Prover) Encrypt(t confidential.ValueType, value *uint256.Int, consumer, submitter common.Address) (*Input, error) {
	nonce, err := NewNonce()
	if err != nil {
		return nil, err
	}
	return p.EncryptWithNonce(t, value, consumer, submitter, nonce)
}

// NewNonce draws a random input nonce
func NewNonce() (ids.ID, error) {
	var nonce ids.ID
	if _, err := rand.Read(nonce[:]); err != nil {
		return ids.Empty, fmt.Errorf("failed to draw nonce: %w", err)
	}
	return nonce, nil
}

// EncryptWithNonce is Encrypt with a caller chosen nonce
func (p *Prover) EncryptWithNonce(
	t confidential.ValueType,
	value *uint256.Int,
	consumer common.Address,
	submitter common.Address,
	nonce ids.ID,
) (*Input, error) {
	material, err := p.scheme.Encrypt(t, value)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt input: %w", err)
	}
	proof := &confidential.InputProof{
		Consumer:  consumer,
		Submitter: submitter,
		Nonce:     nonce,
		Type:      t,
	}
	proof.Attestation, err = p.attestor.Sign(proof.Digest(material))
	if err != nil {
		return nil, fmt.Errorf("failed to attest input: %w", err)
	}
	return &Input{
		Material: material,
		Proof:    proof.Bytes(),
		Nonce:    nonce,
	}, nil
}
