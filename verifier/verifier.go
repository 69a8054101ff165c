// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package verifier turns externally supplied ciphertext material into
// handles. Material is accepted once per (consumer, submitter, nonce) and
// only when attested for exactly that consumer and submitter.
package verifier

import (
	"fmt"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/confidential"
	"github.com/luxfi/confidential/crypto/fhe"
	"github.com/luxfi/confidential/crypto/signature"
	"github.com/luxfi/confidential/registry"
)

// Verifier validates input proofs
type Verifier struct {
	attestor signature.Verifier
	scheme   fhe.Scheme
	nonces   NonceSet
	registry *registry.Registry
}

// New returns a verifier that accepts material attested by attestor
func New(
	attestor signature.Verifier,
	scheme fhe.Scheme,
	nonces NonceSet,
	registry *registry.Registry,
) *Verifier {
	return &Verifier{
		attestor: attestor,
		scheme:   scheme,
		nonces:   nonces,
		registry: registry,
	}
}

// Ingest verifies material and proof for a call made by submitter into
// consumer, consumes the proof's nonce and registers a new handle. The
// handle is returned without any grants.
func (v *Verifier) Ingest(material, proofBytes []byte, consumer, submitter common.Address) (confidential.Handle, error) {
	if len(material) == 0 || len(proofBytes) == 0 {
		return confidential.Handle{}, confidential.ErrEmptyInput
	}

	proof, err := confidential.ParseInputProof(proofBytes)
	if err != nil {
		return confidential.Handle{}, err
	}

	if proof.Consumer != consumer || proof.Submitter != submitter {
		return confidential.Handle{}, fmt.Errorf(
			"%w: proof is for consumer %s submitter %s",
			confidential.ErrWrongBinding,
			proof.Consumer,
			proof.Submitter,
		)
	}

	if err := v.attestor.Verify(proof.Digest(material), proof.Attestation); err != nil {
		return confidential.Handle{}, fmt.Errorf("%w: %v", confidential.ErrInvalidProof, err)
	}

	if err := v.scheme.Validate(proof.Type, material); err != nil {
		return confidential.Handle{}, fmt.Errorf("%w: %v", confidential.ErrInvalidProof, err)
	}

	consumed, err := v.nonces.Consumed(consumer, submitter, proof.Nonce)
	if err != nil {
		return confidential.Handle{}, err
	}
	if consumed {
		return confidential.Handle{}, fmt.Errorf("%w: %s", confidential.ErrReplayedNonce, proof.Nonce)
	}
	if err := v.nonces.Consume(consumer, submitter, proof.Nonce); err != nil {
		return confidential.Handle{}, err
	}

	h := confidential.Handle{
		ID: confidential.InputHandleID(
			confidential.ComputeHash256(material),
			consumer,
			submitter,
			proof.Nonce,
			proof.Type,
		),
		Type:   proof.Type,
		Origin: consumer,
	}
	if err := v.registry.Register(h, material); err != nil {
		return confidential.Handle{}, err
	}
	return h, nil
}
