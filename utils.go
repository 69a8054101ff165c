// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package confidential

import (
	"encoding/binary"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/crypto"
	"github.com/luxfi/ids"
)

// Domain tags keep the hash preimages of different derivations disjoint
var (
	inputHandleTag   = []byte("confidential/input-handle")
	derivedHandleTag = []byte("confidential/derived-handle")
	viewHandleTag    = []byte("confidential/view-handle")
)

// ComputeHash256 computes the keccak256 hash of data
func ComputeHash256(data ...[]byte) common.Hash {
	return common.Hash(crypto.Keccak256Hash(data...))
}

// InputHandleID derives the id of a handle created from verified external input
func InputHandleID(materialHash common.Hash, consumer, submitter common.Address, nonce ids.ID, t ValueType) ids.ID {
	h := ComputeHash256(inputHandleTag, materialHash[:], consumer[:], submitter[:], nonce[:])
	return stamp(h, t)
}

// DerivedHandleID derives the id of the seq-th handle created by origin
func DerivedHandleID(origin common.Address, seq uint64, t ValueType) ids.ID {
	var seqBytes [8]byte
	binary.BigEndian.PutUint64(seqBytes[:], seq)
	h := ComputeHash256(derivedHandleTag, origin[:], seqBytes[:])
	return stamp(h, t)
}

// ViewHandleID derives the id of the seq-th handle created by origin in a
// read-only call. epoch is drawn once per process, so view ids never meet
// each other or the durable sequence.
func ViewHandleID(origin common.Address, epoch ids.ID, seq uint64, t ValueType) ids.ID {
	var seqBytes [8]byte
	binary.BigEndian.PutUint64(seqBytes[:], seq)
	h := ComputeHash256(viewHandleTag, epoch[:], origin[:], seqBytes[:])
	return stamp(h, t)
}

func stamp(h common.Hash, t ValueType) ids.ID {
	id := ids.ID(h)
	id[30] = byte(t)
	id[31] = HandleVersion
	return id
}
