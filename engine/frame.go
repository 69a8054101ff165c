// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"

	"github.com/luxfi/confidential"
	"github.com/luxfi/confidential/acl"
	"github.com/luxfi/confidential/backend"
	"github.com/luxfi/confidential/crypto/fhe"
	"github.com/luxfi/confidential/evaluator"
	"github.com/luxfi/confidential/host"
	"github.com/luxfi/confidential/registry"
	"github.com/luxfi/confidential/verifier"
)

// ErrReadOnly is returned when a read-only call attempts a durable change
var ErrReadOnly = errors.New("state change in read-only call")

// Frame is the view of the engine a program has during one call. Every
// operation acts on behalf of the running program.
type Frame struct {
	call     host.Call
	now      uint64
	readOnly bool

	tx       *backend.Tx
	registry *registry.Registry
	acl      *acl.Manager
	verifier *verifier.Verifier
	layer    *evaluator.Layer
	storage  *backend.Table
}

// Self is the running program
func (f *Frame) Self() common.Address {
	return f.call.Contract
}

// Caller is the principal that invoked the program
func (f *Frame) Caller() common.Address {
	return f.call.Caller
}

// Now is the timestamp of the call
func (f *Frame) Now() uint64 {
	return f.now
}

// ReadOnly reports whether the call is a view
func (f *Frame) ReadOnly() bool {
	return f.readOnly
}

// Ingest accepts material submitted by the caller for the running program
func (f *Frame) Ingest(material, proof []byte) (confidential.Handle, error) {
	if f.readOnly {
		return confidential.Handle{}, ErrReadOnly
	}
	return f.verifier.Ingest(material, proof, f.call.Contract, f.call.Caller)
}

// Grant gives grantee caps on handle id. Read-only calls may only grant
// transiently.
func (f *Frame) Grant(id ids.ID, grantee common.Address, caps confidential.Capability, scope confidential.Scope) error {
	if f.readOnly && scope != confidential.Transient {
		return ErrReadOnly
	}
	return f.acl.Grant(f.call.Contract, id, grantee, caps, scope)
}

// RevokeAll drops every grant on handle id
func (f *Frame) RevokeAll(id ids.ID) error {
	if f.readOnly {
		return ErrReadOnly
	}
	return f.acl.RevokeAll(f.call.Contract, id)
}

// Allowed reports whether principal holds caps on handle id
func (f *Frame) Allowed(id ids.ID, principal common.Address, caps confidential.Capability) (bool, error) {
	return f.acl.Check(id, principal, caps)
}

// Grants lists the grants visible in this call on handle id
func (f *Frame) Grants(id ids.ID) ([]acl.Grant, error) {
	return f.acl.Grants(id)
}

// Apply derives a new handle owned by the running program. The result
// carries no grants.
func (f *Frame) Apply(op fhe.Operation, operands ...ids.ID) (confidential.Handle, error) {
	return f.layer.Apply(f.call.Contract, evaluator.Request{Op: op, Operands: operands})
}

// Convert changes the width of handle id to t
func (f *Frame) Convert(id ids.ID, t confidential.ValueType) (confidential.Handle, error) {
	return f.layer.Apply(f.call.Contract, evaluator.Request{
		Op:       fhe.OpConvertWidth,
		Operands: []ids.ID{id},
		To:       t,
	})
}

// Encrypt wraps a plaintext constant as a handle owned by the running program
func (f *Frame) Encrypt(t confidential.ValueType, value *uint256.Int) (confidential.Handle, error) {
	return f.layer.Encrypt(f.call.Contract, t, value)
}

// Handle returns the registered handle with id
func (f *Frame) Handle(id ids.ID) (confidential.Handle, error) {
	return f.registry.Lookup(id)
}

// Ciphertext returns the opaque blob behind handle id
func (f *Frame) Ciphertext(id ids.ID) ([]byte, error) {
	return f.registry.Ciphertext(id)
}

// Storage is the running program's private key-value space
func (f *Frame) Storage() backend.KV {
	if f.readOnly {
		return readOnlyKV{f.storage}
	}
	return f.storage
}

type readOnlyKV struct {
	backend.KV
}

func (readOnlyKV) Put([]byte, []byte) error {
	return ErrReadOnly
}

func (readOnlyKV) Delete([]byte) error {
	return ErrReadOnly
}
