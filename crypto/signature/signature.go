// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package signature provides the schemes an input attestor may sign with.
// An attestation stands for the verdict of the input proof system: the
// material is a well-formed encryption bound to one consumer and submitter.
package signature

import (
	"errors"
	"fmt"

	"github.com/luxfi/geth/common"
)

// Scheme represents a signature scheme type
type Scheme string

const (
	// SchemeBLS uses BLS signatures
	SchemeBLS Scheme = "bls"

	// SchemeECDSA uses secp256k1 recoverable signatures
	SchemeECDSA Scheme = "ecdsa"
)

var (
	ErrUnknownScheme    = errors.New("unknown signature scheme")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidKey       = errors.New("invalid key")
)

// ParseScheme parses a scheme name
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(s) {
	case SchemeBLS, SchemeECDSA:
		return Scheme(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScheme, s)
	}
}

// Verifier checks attestations against one attestor key
type Verifier interface {
	// Scheme returns the signature scheme this verifier uses
	Scheme() Scheme

	// Verify checks that sig is a signature over digest
	Verify(digest common.Hash, sig []byte) error
}

// Signer produces attestations
type Signer interface {
	// Scheme returns the signature scheme this signer uses
	Scheme() Scheme

	// Sign signs digest
	Sign(digest common.Hash) ([]byte, error)

	// PublicKey returns the serialized key verifiers are built from
	PublicKey() []byte

	// SecretKey returns the serialized secret key (handle with care!)
	SecretKey() []byte
}

// NewVerifier builds a verifier for a serialized attestor public key
func NewVerifier(scheme Scheme, publicKey []byte) (Verifier, error) {
	switch scheme {
	case SchemeBLS:
		return NewBLSVerifier(publicKey)
	case SchemeECDSA:
		return NewECDSAVerifier(publicKey)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}

// NewSigner generates a fresh attestor key
func NewSigner(scheme Scheme) (Signer, error) {
	switch scheme {
	case SchemeBLS:
		return NewBLSSigner()
	case SchemeECDSA:
		return NewECDSASigner()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}

// LoadSigner restores an attestor from its serialized secret key
func LoadSigner(scheme Scheme, secretKey []byte) (Signer, error) {
	switch scheme {
	case SchemeBLS:
		return LoadBLSSigner(secretKey)
	case SchemeECDSA:
		return LoadECDSASigner(secretKey)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}
