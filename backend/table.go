// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package backend

var _ KV = (*Table)(nil)

// Table confines a KV to the keys under one prefix
type Table struct {
	kv     KV
	prefix []byte
}

// NewTable returns the view of kv under prefix
func NewTable(kv KV, prefix []byte) *Table {
	return &Table{kv: kv, prefix: prefix}
}

func (t *Table) key(k []byte) []byte {
	out := make([]byte, 0, len(t.prefix)+len(k))
	out = append(out, t.prefix...)
	return append(out, k...)
}

func (t *Table) Has(key []byte) (bool, error) {
	return t.kv.Has(t.key(key))
}

func (t *Table) Get(key []byte) ([]byte, error) {
	return t.kv.Get(t.key(key))
}

func (t *Table) Put(key []byte, value []byte) error {
	return t.kv.Put(t.key(key), value)
}

func (t *Table) Delete(key []byte) error {
	return t.kv.Delete(t.key(key))
}
