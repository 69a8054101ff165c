// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package signature

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/crypto"
)

var (
	_ Signer   = (*ECDSASigner)(nil)
	_ Verifier = (*ECDSAVerifier)(nil)
)

// ECDSASigner signs with a secp256k1 key
type ECDSASigner struct {
	key *ecdsa.PrivateKey
}

// NewECDSASigner generates a fresh secp256k1 key
func NewECDSASigner() (*ECDSASigner, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ecdsa key: %w", err)
	}
	return &ECDSASigner{key: key}, nil
}

// LoadECDSASigner parses a raw 32-byte secp256k1 secret
func LoadECDSASigner(b []byte) (*ECDSASigner, error) {
	key, err := crypto.ToECDSA(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &ECDSASigner{key: key}, nil
}

func (*ECDSASigner) Scheme() Scheme {
	return SchemeECDSA
}

// Sign returns the 65-byte [R || S || V] signature
func (s *ECDSASigner) Sign(digest common.Hash) ([]byte, error) {
	return crypto.Sign(digest[:], s.key)
}

func (s *ECDSASigner) PublicKey() []byte {
	return crypto.CompressPubkey(&s.key.PublicKey)
}

func (s *ECDSASigner) SecretKey() []byte {
	return crypto.FromECDSA(s.key)
}

// ECDSAVerifier verifies against one secp256k1 public key
type ECDSAVerifier struct {
	pk []byte
}

// NewECDSAVerifier parses a compressed secp256k1 public key
func NewECDSAVerifier(publicKey []byte) (*ECDSAVerifier, error) {
	if _, err := crypto.DecompressPubkey(publicKey); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &ECDSAVerifier{pk: publicKey}, nil
}

func (*ECDSAVerifier) Scheme() Scheme {
	return SchemeECDSA
}

func (v *ECDSAVerifier) Verify(digest common.Hash, sig []byte) error {
	if len(sig) != crypto.SignatureLength {
		return fmt.Errorf("%w: length %d", ErrInvalidSignature, len(sig))
	}
	if !crypto.VerifySignature(v.pk, digest[:], sig[:crypto.RecoveryIDOffset]) {
		return ErrInvalidSignature
	}
	return nil
}
