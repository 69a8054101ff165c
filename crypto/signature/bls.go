// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package signature

import (
	"fmt"

	"github.com/luxfi/crypto/bls"
	"github.com/luxfi/geth/common"
)

var (
	_ Signer   = (*BLSSigner)(nil)
	_ Verifier = (*BLSVerifier)(nil)
)

// BLSSigner signs with a local secret key
type BLSSigner struct {
	sk *bls.SecretKey
	pk *bls.PublicKey
}

// NewBLSSigner generates a fresh BLS key
func NewBLSSigner() (*BLSSigner, error) {
	sk, err := bls.NewSecretKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate bls key: %w", err)
	}
	return &BLSSigner{sk: sk, pk: sk.PublicKey()}, nil
}

// LoadBLSSigner parses a serialized BLS secret key
func LoadBLSSigner(b []byte) (*BLSSigner, error) {
	sk, err := bls.SecretKeyFromBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &BLSSigner{sk: sk, pk: sk.PublicKey()}, nil
}

func (*BLSSigner) Scheme() Scheme {
	return SchemeBLS
}

func (s *BLSSigner) Sign(digest common.Hash) ([]byte, error) {
	sig, err := s.sk.Sign(digest[:])
	if err != nil {
		return nil, err
	}
	return bls.SignatureToBytes(sig), nil
}

func (s *BLSSigner) PublicKey() []byte {
	return bls.PublicKeyToCompressedBytes(s.pk)
}

func (s *BLSSigner) SecretKey() []byte {
	return bls.SecretKeyToBytes(s.sk)
}

// BLSVerifier verifies against one BLS public key
type BLSVerifier struct {
	pk *bls.PublicKey
}

// NewBLSVerifier parses a compressed BLS public key
func NewBLSVerifier(publicKey []byte) (*BLSVerifier, error) {
	pk, err := bls.PublicKeyFromCompressedBytes(publicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &BLSVerifier{pk: pk}, nil
}

func (*BLSVerifier) Scheme() Scheme {
	return SchemeBLS
}

func (v *BLSVerifier) Verify(digest common.Hash, sigBytes []byte) error {
	sig, err := bls.SignatureFromBytes(sigBytes)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if !bls.Verify(v.pk, sig, digest[:]) {
		return ErrInvalidSignature
	}
	return nil
}
