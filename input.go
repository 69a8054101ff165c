// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package confidential

import (
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
)

var attestationTag = []byte("confidential/input-attestation/v1")

// InputProof accompanies externally supplied ciphertext material. It binds
// the material to one consuming program, one submitter and one nonce.
type InputProof struct {
	Consumer    common.Address
	Submitter   common.Address
	Nonce       ids.ID
	Type        ValueType
	Attestation []byte
}

// AttestationDigest is the message the input attestor signs
func AttestationDigest(material []byte, consumer, submitter common.Address, nonce ids.ID, t ValueType) common.Hash {
	materialHash := ComputeHash256(material)
	return ComputeHash256(
		attestationTag,
		materialHash[:],
		[]byte{byte(t)},
		consumer[:],
		submitter[:],
		nonce[:],
	)
}

// Digest returns the attestation digest of p over material
func (p *InputProof) Digest(material []byte) common.Hash {
	return AttestationDigest(material, p.Consumer, p.Submitter, p.Nonce, p.Type)
}

// Bytes returns the wire form of the proof
func (p *InputProof) Bytes() []byte {
	b, _ := Codec.Marshal(CodecVersion, p)
	return b
}

// ParseInputProof decodes a proof from its wire form
func ParseInputProof(b []byte) (*InputProof, error) {
	p := &InputProof{}
	if _, err := Codec.Unmarshal(b, p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	if !p.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown value type %d", ErrInvalidProof, p.Type)
	}
	if len(p.Attestation) == 0 {
		return nil, fmt.Errorf("%w: missing attestation", ErrInvalidProof)
	}
	return p, nil
}
