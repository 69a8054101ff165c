// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package confidential

import (
	"errors"
	"fmt"
)

// Every failure of a call surfaces as exactly one of these kinds.
var (
	ErrEmptyInput        = errors.New("empty input")
	ErrInvalidProof      = errors.New("invalid proof")
	ErrWrongBinding      = errors.New("wrong binding")
	ErrReplayedNonce     = errors.New("replayed nonce")
	ErrMissingCapability = errors.New("missing capability")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrUnsupportedOp     = errors.New("unsupported operation")
	ErrWrongPhase        = errors.New("wrong phase")
	ErrInvalidIndex      = errors.New("invalid index")
	ErrNotRegistered     = errors.New("not registered")
)

// Stable error codes, as returned to callers of the precompile
const (
	CodeInternal int32 = iota
	CodeEmptyInput
	CodeInvalidProof
	CodeWrongBinding
	CodeReplayedNonce
	CodeMissingCapability
	CodeTypeMismatch
	CodeUnsupportedOp
	CodeWrongPhase
	CodeInvalidIndex
	CodeNotRegistered
)

var kinds = []struct {
	err  error
	code int32
}{
	{ErrEmptyInput, CodeEmptyInput},
	{ErrInvalidProof, CodeInvalidProof},
	{ErrWrongBinding, CodeWrongBinding},
	{ErrReplayedNonce, CodeReplayedNonce},
	{ErrMissingCapability, CodeMissingCapability},
	{ErrTypeMismatch, CodeTypeMismatch},
	{ErrUnsupportedOp, CodeUnsupportedOp},
	{ErrWrongPhase, CodeWrongPhase},
	{ErrInvalidIndex, CodeInvalidIndex},
	{ErrNotRegistered, CodeNotRegistered},
}

// Error is the wire form of a failed call
type Error struct {
	Code    int32
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("confidential error %d: %s", e.Code, e.Message)
}

// Is matches e against the sentinel of the same kind
func (e *Error) Is(target error) bool {
	for _, k := range kinds {
		if k.err == target {
			return k.code == e.Code
		}
	}
	return false
}

// CodeOf returns the error code for err, CodeInternal if it is not one of
// the known kinds
func CodeOf(err error) int32 {
	var wire *Error
	if errors.As(err, &wire) {
		return wire.Code
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.code
		}
	}
	return CodeInternal
}

// KindOf returns the sentinel error for err, or nil if err is not one of the
// known kinds
func KindOf(err error) error {
	code := CodeOf(err)
	for _, k := range kinds {
		if k.code == code {
			return k.err
		}
	}
	return nil
}

// NewError converts err into its wire form
func NewError(err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    CodeOf(err),
		Message: err.Error(),
	}
}
