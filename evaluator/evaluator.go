// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package evaluator derives new handles from existing ones. It checks
// rights and types, then hands the ciphertexts to the scheme. Plaintext is
// never seen here.
package evaluator

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"

	"github.com/luxfi/confidential"
	"github.com/luxfi/confidential/acl"
	"github.com/luxfi/confidential/crypto/fhe"
	"github.com/luxfi/confidential/registry"
)

// Request is one homomorphic operation
type Request struct {
	Op       fhe.Operation
	Operands []ids.ID
	// To is the target type of OpConvertWidth and ignored otherwise
	To confidential.ValueType
}

// Layer dispatches operations to the scheme
type Layer struct {
	scheme   fhe.Scheme
	registry *registry.Registry
	acl      *acl.Manager
}

func New(scheme fhe.Scheme, registry *registry.Registry, acl *acl.Manager) *Layer {
	return &Layer{
		scheme:   scheme,
		registry: registry,
		acl:      acl,
	}
}

// Apply evaluates req on behalf of caller, which must hold Operate on every
// operand. The result is owned by caller and carries no grants.
func (l *Layer) Apply(caller common.Address, req Request) (confidential.Handle, error) {
	if !req.Op.Valid() || len(req.Operands) != req.Op.Arity() {
		return confidential.Handle{}, fmt.Errorf(
			"%w: %s with %d operands",
			confidential.ErrUnsupportedOp,
			req.Op,
			len(req.Operands),
		)
	}

	for _, id := range req.Operands {
		if err := l.acl.Require(id, caller, confidential.Operate); err != nil {
			return confidential.Handle{}, err
		}
	}

	operands := make([]confidential.Handle, len(req.Operands))
	ciphertexts := make([][]byte, len(req.Operands))
	for i, id := range req.Operands {
		h, err := l.registry.Lookup(id)
		if errors.Is(err, registry.ErrUnknownHandle) {
			return confidential.Handle{}, fmt.Errorf("%w: %v", confidential.ErrMissingCapability, err)
		}
		if err != nil {
			return confidential.Handle{}, err
		}
		ct, err := l.registry.Ciphertext(id)
		if err != nil {
			return confidential.Handle{}, err
		}
		operands[i], ciphertexts[i] = h, ct
	}

	t := operands[0].Type
	for _, h := range operands[1:] {
		if h.Type != t {
			return confidential.Handle{}, fmt.Errorf(
				"%w: %s on %s and %s",
				confidential.ErrTypeMismatch,
				req.Op,
				t,
				h.Type,
			)
		}
	}
	if !req.Op.Supports(t, req.To) {
		return confidential.Handle{}, fmt.Errorf("%w: %s on %s", confidential.ErrUnsupportedOp, req.Op, t)
	}

	result := req.Op.ResultType(t, req.To)
	ct, err := l.scheme.Evaluate(req.Op, result, ciphertexts...)
	if err != nil {
		return confidential.Handle{}, schemeError(err)
	}
	return l.register(caller, result, ct)
}

// Encrypt wraps a plaintext constant as a handle owned by caller. Constants
// are public by construction; the result still carries no grants.
func (l *Layer) Encrypt(caller common.Address, t confidential.ValueType, value *uint256.Int) (confidential.Handle, error) {
	if !t.Valid() {
		return confidential.Handle{}, fmt.Errorf("%w: unknown type %d", confidential.ErrUnsupportedOp, t)
	}
	if !t.Fits(value) {
		return confidential.Handle{}, fmt.Errorf("%w: constant does not fit %s", confidential.ErrTypeMismatch, t)
	}
	ct, err := l.scheme.Encrypt(t, value)
	if err != nil {
		return confidential.Handle{}, schemeError(err)
	}
	return l.register(caller, t, ct)
}

func (l *Layer) register(origin common.Address, t confidential.ValueType, ct []byte) (confidential.Handle, error) {
	id, err := l.registry.NextDerivedID(origin, t)
	if err != nil {
		return confidential.Handle{}, err
	}
	h := confidential.Handle{ID: id, Type: t, Origin: origin}
	if err := l.registry.Register(h, ct); err != nil {
		return confidential.Handle{}, err
	}
	return h, nil
}

func schemeError(err error) error {
	switch {
	case errors.Is(err, fhe.ErrUnsupportedOperation):
		return fmt.Errorf("%w: %v", confidential.ErrUnsupportedOp, err)
	case errors.Is(err, fhe.ErrIncompatibleCiphertexts):
		return fmt.Errorf("%w: %v", confidential.ErrTypeMismatch, err)
	default:
		return fmt.Errorf("scheme evaluation failed: %w", err)
	}
}
