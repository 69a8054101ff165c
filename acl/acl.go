// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package acl tracks who may operate on or decrypt each handle.
//
// Grants are keyed by handle id. A new handle has none, and deriving a
// handle from others never copies theirs: every right is granted
// explicitly. Transient grants live only until ClearTransient, which the
// engine calls at the end of every call.
package acl

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/ids"

	"github.com/luxfi/confidential"
	"github.com/luxfi/confidential/backend"
	"github.com/luxfi/confidential/registry"
)

// Public is the principal standing for everyone. A Decrypt grant to it makes
// a handle publicly decryptable; it never confers Operate.
var Public = common.Address{}

var errInvalidCapability = errors.New("invalid capability")

// Grant is one entry of the grant relation
type Grant struct {
	Grantee    common.Address
	Capability confidential.Capability
	Scope      confidential.Scope
}

type grantRecord struct {
	Grantee common.Address
	Caps    uint8
}

// Manager owns the grant relation for one call
type Manager struct {
	kv        backend.KV
	registry  *registry.Registry
	transient map[ids.ID]map[common.Address]confidential.Capability
}

// New returns a manager persisting through kv
func New(kv backend.KV, registry *registry.Registry) *Manager {
	return &Manager{
		kv:        kv,
		registry:  registry,
		transient: make(map[ids.ID]map[common.Address]confidential.Capability),
	}
}

// Grant gives grantee caps on handle id. Granting rights already held is a
// no-op. Only the program the handle was created for, or a program holding
// Operate on it, may grant.
func (m *Manager) Grant(
	granter common.Address,
	id ids.ID,
	grantee common.Address,
	caps confidential.Capability,
	scope confidential.Scope,
) error {
	if !caps.Valid() {
		return fmt.Errorf("%w: %d", errInvalidCapability, caps)
	}
	if err := m.authorize(granter, id); err != nil {
		return err
	}

	switch scope {
	case confidential.Transient:
		byGrantee, ok := m.transient[id]
		if !ok {
			byGrantee = make(map[common.Address]confidential.Capability)
			m.transient[id] = byGrantee
		}
		byGrantee[grantee] |= caps
		return nil
	case confidential.Persistent:
		records, err := m.load(id)
		if err != nil {
			return err
		}
		i, found := slices.BinarySearchFunc(records, grantee, func(r grantRecord, a common.Address) int {
			return bytes.Compare(r.Grantee[:], a[:])
		})
		if found {
			held := confidential.Capability(records[i].Caps)
			if held.Has(caps) {
				return nil
			}
			records[i].Caps = uint8(held | caps)
		} else {
			records = slices.Insert(records, i, grantRecord{Grantee: grantee, Caps: uint8(caps)})
		}
		return m.store(id, records)
	default:
		return fmt.Errorf("unknown grant scope %d", scope)
	}
}

// RevokeAll drops every grant on handle id, persistent and transient. It is
// the only form of revocation.
func (m *Manager) RevokeAll(granter common.Address, id ids.ID) error {
	if err := m.authorize(granter, id); err != nil {
		return err
	}
	delete(m.transient, id)
	return m.kv.Delete(backend.GrantKey(id))
}

// Check reports whether principal holds every right in caps on handle id
func (m *Manager) Check(id ids.ID, principal common.Address, caps confidential.Capability) (bool, error) {
	if !caps.Valid() {
		return false, fmt.Errorf("%w: %d", errInvalidCapability, caps)
	}
	held, err := m.held(id, principal)
	if err != nil {
		return false, err
	}
	if caps.Has(confidential.Decrypt) && principal != Public {
		public, err := m.held(id, Public)
		if err != nil {
			return false, err
		}
		held |= public & confidential.Decrypt
	}
	return held.Has(caps), nil
}

// Require is Check failing with ErrMissingCapability
func (m *Manager) Require(id ids.ID, principal common.Address, caps confidential.Capability) error {
	ok, err := m.Check(id, principal, caps)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s lacks %s on %s", confidential.ErrMissingCapability, principal, caps, id)
	}
	return nil
}

// Grants lists the grants on handle id, persistent first, each ordered by
// grantee
func (m *Manager) Grants(id ids.ID) ([]Grant, error) {
	records, err := m.load(id)
	if err != nil {
		return nil, err
	}
	grants := make([]Grant, 0, len(records))
	for _, r := range records {
		grants = append(grants, Grant{
			Grantee:    r.Grantee,
			Capability: confidential.Capability(r.Caps),
			Scope:      confidential.Persistent,
		})
	}
	transient := make([]Grant, 0, len(m.transient[id]))
	for grantee, caps := range m.transient[id] {
		transient = append(transient, Grant{
			Grantee:    grantee,
			Capability: caps,
			Scope:      confidential.Transient,
		})
	}
	slices.SortFunc(transient, func(a, b Grant) int {
		return bytes.Compare(a.Grantee[:], b.Grantee[:])
	})
	return append(grants, transient...), nil
}

// ClearTransient discards every transient grant
func (m *Manager) ClearTransient() {
	clear(m.transient)
}

func (m *Manager) authorize(granter common.Address, id ids.ID) error {
	h, err := m.registry.Lookup(id)
	if errors.Is(err, registry.ErrUnknownHandle) {
		return fmt.Errorf("%w: %v", confidential.ErrMissingCapability, err)
	}
	if err != nil {
		return err
	}
	if h.Origin == granter {
		return nil
	}
	return m.Require(id, granter, confidential.Operate)
}

func (m *Manager) held(id ids.ID, principal common.Address) (confidential.Capability, error) {
	held := m.transient[id][principal]
	records, err := m.load(id)
	if err != nil {
		return 0, err
	}
	for _, r := range records {
		if r.Grantee == principal {
			held |= confidential.Capability(r.Caps)
			break
		}
	}
	return held, nil
}

func (m *Manager) load(id ids.ID) ([]grantRecord, error) {
	raw, found, err := backend.ReadValue(m.kv, backend.GrantKey(id))
	if err != nil || !found {
		return nil, err
	}
	var records []grantRecord
	if _, err := confidential.Codec.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode grants of %s: %w", id, err)
	}
	return records, nil
}

func (m *Manager) store(id ids.ID, records []grantRecord) error {
	raw, err := confidential.Codec.Marshal(confidential.CodecVersion, records)
	if err != nil {
		return fmt.Errorf("failed to encode grants of %s: %w", id, err)
	}
	return m.kv.Put(backend.GrantKey(id), raw)
}
