// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package backend

import (
	"errors"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
)

var errTxClosed = errors.New("transaction already closed")

// Key layout. Every persisted record is keyed by opaque identifiers only.
//
//	"n" consumer submitter nonce -> consumed marker
//	"h" handle id                -> handle metadata
//	"c" handle id                -> ciphertext blob
//	"g" handle id                -> persistent grants
//	"q"                          -> derived handle sequence
//	"s" program                  -> program storage table
var (
	noncePrefix      = []byte("n")
	handlePrefix     = []byte("h")
	ciphertextPrefix = []byte("c")
	grantPrefix      = []byte("g")
	storagePrefix    = []byte("s")

	SequenceKey = []byte("q")
)

// NonceKey is the consumption record of a (consumer, submitter, nonce) triple
func NonceKey(consumer, submitter common.Address, nonce ids.ID) []byte {
	return concat(noncePrefix, consumer[:], submitter[:], nonce[:])
}

// HandleKey is the metadata record of a handle
func HandleKey(id ids.ID) []byte {
	return concat(handlePrefix, id[:])
}

// CiphertextKey is the ciphertext blob of a handle
func CiphertextKey(id ids.ID) []byte {
	return concat(ciphertextPrefix, id[:])
}

// GrantKey is the persistent grant set of a handle
func GrantKey(id ids.ID) []byte {
	return concat(grantPrefix, id[:])
}

// StoragePrefix is the root of program's private storage
func StoragePrefix(program common.Address) []byte {
	return concat(storagePrefix, program[:])
}

func concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
