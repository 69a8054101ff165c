// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package backend

import (
	"testing"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
)

func TestTxCommit(t *testing.T) {
	require := require.New(t)

	db := NewMemoryBackend()
	require.NoError(db.(KV).Put([]byte("keep"), []byte{1}))
	require.NoError(db.(KV).Put([]byte("drop"), []byte{2}))

	tx := NewTx(db)
	require.NoError(tx.Put([]byte("new"), []byte{3}))
	require.NoError(tx.Delete([]byte("drop")))

	// overlay reads see buffered writes, the backend does not
	v, err := tx.Get([]byte("new"))
	require.NoError(err)
	require.Equal([]byte{3}, v)
	ok, err := tx.Has([]byte("drop"))
	require.NoError(err)
	require.False(ok)
	ok, err = db.Has([]byte("new"))
	require.NoError(err)
	require.False(ok)

	require.NoError(tx.Commit())
	require.ErrorIs(tx.Put([]byte("late"), nil), errTxClosed)

	_, found, err := ReadValue(db, []byte("drop"))
	require.NoError(err)
	require.False(found)
	v, found, err = ReadValue(db, []byte("new"))
	require.NoError(err)
	require.True(found)
	require.Equal([]byte{3}, v)
}

func TestTxDiscard(t *testing.T) {
	require := require.New(t)

	db := NewMemoryBackend()
	tx := NewTx(db)
	require.NoError(tx.Put([]byte("a"), []byte{1}))
	require.Equal(1, tx.Dirty())
	tx.Discard()

	ok, err := db.Has([]byte("a"))
	require.NoError(err)
	require.False(ok)
	require.ErrorIs(tx.Commit(), errTxClosed)
}

func TestTxCopiesValues(t *testing.T) {
	require := require.New(t)

	tx := NewTx(NewMemoryBackend())
	buf := []byte{1, 2}
	require.NoError(tx.Put([]byte("k"), buf))
	buf[0] = 9

	v, err := tx.Get([]byte("k"))
	require.NoError(err)
	require.Equal([]byte{1, 2}, v)
}

func TestTable(t *testing.T) {
	require := require.New(t)

	tx := NewTx(NewMemoryBackend())
	a := NewTable(tx, []byte("a/"))
	b := NewTable(tx, []byte("b/"))

	require.NoError(a.Put([]byte("k"), []byte{1}))
	ok, err := b.Has([]byte("k"))
	require.NoError(err)
	require.False(ok)

	v, err := tx.Get([]byte("a/k"))
	require.NoError(err)
	require.Equal([]byte{1}, v)

	require.NoError(a.Delete([]byte("k")))
	ok, err = a.Has([]byte("k"))
	require.NoError(err)
	require.False(ok)
}

func TestCachedBackendInvalidatesOnWrite(t *testing.T) {
	require := require.New(t)

	db := NewCachedBackend(NewMemoryBackend(), 16)
	tx := NewTx(db)
	require.NoError(tx.Put([]byte("k"), []byte{1}))
	require.NoError(tx.Commit())

	v, err := db.Get([]byte("k"))
	require.NoError(err)
	require.Equal([]byte{1}, v)

	tx = NewTx(db)
	require.NoError(tx.Put([]byte("k"), []byte{2}))
	require.NoError(tx.Commit())

	v, err = db.Get([]byte("k"))
	require.NoError(err)
	require.Equal([]byte{2}, v)
}

func TestKeysDisjoint(t *testing.T) {
	require := require.New(t)

	id := ids.GenerateTestID()
	keys := [][]byte{
		NonceKey(common.Address{1}, common.Address{2}, id),
		HandleKey(id),
		CiphertextKey(id),
		GrantKey(id),
		StoragePrefix(common.Address{1}),
		SequenceKey,
	}
	seen := make(map[string]struct{})
	for _, k := range keys {
		_, dup := seen[string(k)]
		require.False(dup)
		seen[string(k)] = struct{}{}
	}
	require.NotEqual(
		NonceKey(common.Address{1}, common.Address{2}, id),
		NonceKey(common.Address{2}, common.Address{1}, id),
	)
}

func TestLevelDBBackend(t *testing.T) {
	require := require.New(t)

	db, err := NewLevelDBBackend(t.TempDir(), 16, 16)
	require.NoError(err)
	defer db.Close()

	tx := NewTx(db)
	require.NoError(tx.Put([]byte("k"), []byte{7}))
	require.NoError(tx.Commit())

	v, found, err := ReadValue(db, []byte("k"))
	require.NoError(err)
	require.True(found)
	require.Equal([]byte{7}, v)
}
