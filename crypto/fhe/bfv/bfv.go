// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package bfv implements the coprocessor boundary on the BFV scheme.
// Only additive circuits are evaluated; comparisons need a boolean circuit
// this backend does not provide and are reported as unsupported.
//
// Slots hold residues mod T. Decrypt lifts a slot to its centered
// representative in (-T/2, T/2] and reduces that mod 2^width, which wraps
// exactly like the plaintext arithmetic as long as the exact result of a
// chain of additions stays inside that interval. Only widths whose sum and
// difference always fit are accepted.
package bfv

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/tuneinsight/lattigo/v4/bfv"
	"github.com/tuneinsight/lattigo/v4/rlwe"

	"github.com/luxfi/confidential"
	"github.com/luxfi/confidential/cache"
	"github.com/luxfi/confidential/crypto/fhe"
)

const defaultCacheSize = 256

var _ fhe.Scheme = (*Scheme)(nil)

// Scheme evaluates Add and Sub over BFV ciphertexts. Plaintexts live in
// Z_T, so widths whose sums can reach T/2 are rejected.
type Scheme struct {
	params    bfv.Parameters
	encoder   bfv.Encoder
	encryptor rlwe.Encryptor
	decryptor rlwe.Decryptor
	evaluator bfv.Evaluator

	// decoded ciphertexts keyed by their wire bytes
	decoded *cache.FIFOCache[*rlwe.Ciphertext]
}

// New generates a fresh key pair for the default parameter set
func New() (*Scheme, error) {
	params, err := bfv.NewParametersFromLiteral(bfv.PN12QP109)
	if err != nil {
		return nil, fmt.Errorf("failed to build bfv parameters: %w", err)
	}
	kgen := bfv.NewKeyGenerator(params)
	sk, pk := kgen.GenKeyPair()

	return &Scheme{
		params:    params,
		encoder:   bfv.NewEncoder(params),
		encryptor: bfv.NewEncryptor(params, pk),
		decryptor: bfv.NewDecryptor(params, sk),
		evaluator: bfv.NewEvaluator(params, rlwe.EvaluationKey{}),
		decoded:   cache.NewFIFOCache[*rlwe.Ciphertext](defaultCacheSize),
	}, nil
}

// PlaintextModulus returns T
func (s *Scheme) PlaintextModulus() uint64 {
	return s.params.T()
}

func (s *Scheme) supportsType(t confidential.ValueType) bool {
	if !t.Valid() || t == confidential.TypeAddress {
		return false
	}
	return 2*t.Mask().Uint64() < s.params.T()/2
}

func (s *Scheme) Encrypt(t confidential.ValueType, plaintext *uint256.Int) ([]byte, error) {
	if !s.supportsType(t) {
		return nil, fmt.Errorf("%w: %s exceeds plaintext modulus", fhe.ErrUnsupportedOperation, t)
	}
	if !t.Fits(plaintext) {
		return nil, fmt.Errorf("%w: value does not fit %s", fhe.ErrInvalidCiphertext, t)
	}
	pt := bfv.NewPlaintext(s.params, s.params.MaxLevel())
	s.encoder.Encode([]uint64{plaintext.Uint64()}, pt)
	return s.seal(t, s.encryptor.EncryptNew(pt))
}

func (s *Scheme) Validate(t confidential.ValueType, material []byte) error {
	got, _, err := s.open(material)
	if err != nil {
		return err
	}
	if got != t {
		return fmt.Errorf("%w: ciphertext is %s, declared %s", fhe.ErrInvalidCiphertext, got, t)
	}
	return nil
}

func (s *Scheme) Evaluate(op fhe.Operation, result confidential.ValueType, operands ...[]byte) ([]byte, error) {
	if op != fhe.OpAdd && op != fhe.OpSub {
		return nil, fmt.Errorf("%w: %s", fhe.ErrUnsupportedOperation, op)
	}
	if len(operands) != 2 {
		return nil, fmt.Errorf("%w: %s with %d operands", fhe.ErrUnsupportedOperation, op, len(operands))
	}
	ta, a, err := s.open(operands[0])
	if err != nil {
		return nil, err
	}
	tb, b, err := s.open(operands[1])
	if err != nil {
		return nil, err
	}
	if ta != tb || ta != result {
		return nil, fhe.ErrIncompatibleCiphertexts
	}

	var out *rlwe.Ciphertext
	if op == fhe.OpAdd {
		out = s.evaluator.AddNew(a, b)
	} else {
		out = s.evaluator.SubNew(a, b)
	}
	return s.seal(result, out)
}

// Decrypt reduces the slot value into the width of the ciphertext type
func (s *Scheme) Decrypt(ciphertext []byte) (*uint256.Int, error) {
	t, ct, err := s.open(ciphertext)
	if err != nil {
		return nil, err
	}
	pt := s.decryptor.DecryptNew(ct)
	values := s.encoder.DecodeUintNew(pt)
	if len(values) == 0 {
		return nil, fhe.ErrInvalidCiphertext
	}
	return s.lift(values[0], t), nil
}

// lift maps slot value v mod T to the same value mod 2^width of t
func (s *Scheme) lift(v uint64, t confidential.ValueType) *uint256.Int {
	T := s.params.T()
	centered := int64(v % T)
	if uint64(centered) > T/2 {
		centered -= int64(T)
	}
	return uint256.NewInt(uint64(centered) & t.Mask().Uint64())
}

func (s *Scheme) seal(t confidential.ValueType, ct *rlwe.Ciphertext) ([]byte, error) {
	b, err := ct.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ciphertext: %w", err)
	}
	return append([]byte{byte(t)}, b...), nil
}

func (s *Scheme) open(blob []byte) (confidential.ValueType, *rlwe.Ciphertext, error) {
	if len(blob) < 2 {
		return 0, nil, fhe.ErrInvalidCiphertext
	}
	t := confidential.ValueType(blob[0])
	if !s.supportsType(t) {
		return 0, nil, fhe.ErrInvalidCiphertext
	}
	ct, err := s.decoded.Get(string(blob[1:]), func(key string) (*rlwe.Ciphertext, error) {
		ct := new(rlwe.Ciphertext)
		if err := ct.UnmarshalBinary([]byte(key)); err != nil {
			return nil, fmt.Errorf("%w: %v", fhe.ErrInvalidCiphertext, err)
		}
		return ct, nil
	})
	if err != nil {
		return 0, nil, err
	}
	return t, ct, nil
}
