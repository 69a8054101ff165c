// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package precompile exposes the engine to EVM programs through an ABI.
// The running program is the frame's Self; every failure is returned as a
// *confidential.Error.
package precompile

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/accounts/abi"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"

	"github.com/luxfi/confidential"
	"github.com/luxfi/confidential/crypto/fhe"
	"github.com/luxfi/confidential/engine"
)

var (
	ErrOutOfGas       = errors.New("out of gas")
	ErrInvalidInput   = errors.New("invalid input")
	ErrWriteProtected = errors.New("state-changing method in read-only call")
)

type handler struct {
	gas      uint64
	mutating bool
	run      func(f *engine.Frame, args []interface{}) ([]interface{}, error)
}

// Contract dispatches ABI calls onto a frame
type Contract struct {
	abi      abi.ABI
	handlers map[string]handler
}

// New parses the ABI and binds its methods
func New() (*Contract, error) {
	parsed, err := abi.JSON(strings.NewReader(ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi: %w", err)
	}
	c := &Contract{abi: parsed}
	c.handlers = map[string]handler{
		"verifyInput":    {VerifyInputGas, true, verifyInput},
		"allow":          {AllowGas, true, allow(confidential.Persistent)},
		"allowTransient": {AllowTransientGas, false, allow(confidential.Transient)},
		"isAllowed":      {IsAllowedGas, false, isAllowed},
		"revokeAll":      {RevokeAllGas, true, revokeAll},
		"add":            {AddGas, false, binaryOp(fhe.OpAdd)},
		"sub":            {SubGas, false, binaryOp(fhe.OpSub)},
		"eq":             {CompareGas, false, binaryOp(fhe.OpEq)},
		"gt":             {CompareGas, false, binaryOp(fhe.OpGt)},
		"ge":             {CompareGas, false, binaryOp(fhe.OpGte)},
		"lt":             {CompareGas, false, binaryOp(fhe.OpLt)},
		"cast":           {CastGas, false, cast},
		"trivialEncrypt": {TrivialEncryptGas, false, trivialEncrypt},
	}
	return c, nil
}

// ABI returns the parsed interface
func (c *Contract) ABI() abi.ABI {
	return c.abi
}

// RequiredGas returns the cost of input, or 0 if it names no method
func (c *Contract) RequiredGas(input []byte) uint64 {
	method, err := c.method(input)
	if err != nil {
		return 0
	}
	return c.handlers[method.Name].gas
}

// Run executes input in f
func (c *Contract) Run(f *engine.Frame, input []byte, suppliedGas uint64) (ret []byte, remainingGas uint64, err error) {
	method, err := c.method(input)
	if err != nil {
		return nil, suppliedGas, err
	}
	h := c.handlers[method.Name]
	if suppliedGas < h.gas {
		return nil, 0, ErrOutOfGas
	}
	remainingGas = suppliedGas - h.gas

	if h.mutating && f.ReadOnly() {
		return nil, remainingGas, fmt.Errorf("%w: %s", ErrWriteProtected, method.Name)
	}
	args, err := method.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, remainingGas, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	out, err := h.run(f, args)
	if err != nil {
		return nil, remainingGas, confidential.NewError(err)
	}
	ret, err = method.Outputs.Pack(out...)
	if err != nil {
		return nil, remainingGas, fmt.Errorf("failed to pack %s output: %w", method.Name, err)
	}
	return ret, remainingGas, nil
}

func (c *Contract) method(input []byte) (*abi.Method, error) {
	if len(input) < 4 {
		return nil, fmt.Errorf("%w: missing selector", ErrInvalidInput)
	}
	method, err := c.abi.MethodById(input[:4])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return method, nil
}

func verifyInput(f *engine.Frame, args []interface{}) ([]interface{}, error) {
	h, err := f.Ingest(args[0].([]byte), args[1].([]byte))
	if err != nil {
		return nil, err
	}
	return []interface{}{[32]byte(h.ID)}, nil
}

func allow(scope confidential.Scope) func(*engine.Frame, []interface{}) ([]interface{}, error) {
	return func(f *engine.Frame, args []interface{}) ([]interface{}, error) {
		id := ids.ID(args[0].([32]byte))
		account := args[1].(common.Address)
		caps := confidential.Capability(args[2].(uint8))
		return nil, f.Grant(id, account, caps, scope)
	}
}

func isAllowed(f *engine.Frame, args []interface{}) ([]interface{}, error) {
	ok, err := f.Allowed(ids.ID(args[0].([32]byte)), args[1].(common.Address), confidential.Capability(args[2].(uint8)))
	if err != nil {
		return nil, err
	}
	return []interface{}{ok}, nil
}

func revokeAll(f *engine.Frame, args []interface{}) ([]interface{}, error) {
	return nil, f.RevokeAll(ids.ID(args[0].([32]byte)))
}

func binaryOp(op fhe.Operation) func(*engine.Frame, []interface{}) ([]interface{}, error) {
	return func(f *engine.Frame, args []interface{}) ([]interface{}, error) {
		h, err := f.Apply(op, ids.ID(args[0].([32]byte)), ids.ID(args[1].([32]byte)))
		if err != nil {
			return nil, err
		}
		return []interface{}{[32]byte(h.ID)}, nil
	}
}

func cast(f *engine.Frame, args []interface{}) ([]interface{}, error) {
	h, err := f.Convert(ids.ID(args[0].([32]byte)), confidential.ValueType(args[1].(uint8)))
	if err != nil {
		return nil, err
	}
	return []interface{}{[32]byte(h.ID)}, nil
}

func trivialEncrypt(f *engine.Frame, args []interface{}) ([]interface{}, error) {
	value, overflow := uint256.FromBig(args[0].(*big.Int))
	if overflow {
		return nil, fmt.Errorf("%w: constant exceeds 256 bits", confidential.ErrTypeMismatch)
	}
	h, err := f.Encrypt(confidential.ValueType(args[1].(uint8)), value)
	if err != nil {
		return nil, err
	}
	return []interface{}{[32]byte(h.ID)}, nil
}
