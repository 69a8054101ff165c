// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package engine is the call boundary. Each call runs against a Frame as
// one atomic unit: its writes are committed together when it succeeds and
// dropped entirely when it fails, and its transient grants end with it.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/confidential/acl"
	"github.com/luxfi/confidential/backend"
	"github.com/luxfi/confidential/crypto/fhe"
	"github.com/luxfi/confidential/crypto/signature"
	"github.com/luxfi/confidential/evaluator"
	"github.com/luxfi/confidential/host"
	"github.com/luxfi/confidential/registry"
	"github.com/luxfi/confidential/verifier"
)

// Config holds the collaborators of an Engine
type Config struct {
	Scheme     fhe.Scheme
	Attestor   signature.Verifier
	Backend    backend.Backend
	Clock      host.Clock
	Log        log.Logger
	Registerer prometheus.Registerer
}

// Engine serializes calls over one state backend
type Engine struct {
	scheme    fhe.Scheme
	attestor  signature.Verifier
	db        backend.Backend
	sequencer *host.Sequencer
	views     *registry.ViewSequence
	log       log.Logger
	metrics   *metrics
}

// New returns an engine. Clock defaults to the system clock and Registerer to
// a private registry.
func New(cfg Config) (*Engine, error) {
	switch {
	case cfg.Scheme == nil:
		return nil, errors.New("engine requires a scheme")
	case cfg.Attestor == nil:
		return nil, errors.New("engine requires an input attestor")
	case cfg.Backend == nil:
		return nil, errors.New("engine requires a backend")
	}
	if cfg.Clock == nil {
		cfg.Clock = host.SystemClock{}
	}
	if cfg.Log == nil {
		cfg.Log = log.NewNoOpLogger()
	}
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.NewRegistry()
	}
	views, err := registry.NewViewSequence()
	if err != nil {
		return nil, err
	}
	return &Engine{
		scheme:    cfg.Scheme,
		attestor:  cfg.Attestor,
		db:        cfg.Backend,
		sequencer: host.NewSequencer(cfg.Clock),
		views:     views,
		log:       cfg.Log,
		metrics:   newMetrics(cfg.Registerer),
	}, nil
}

// Scheme returns the cryptosystem the engine evaluates with
func (e *Engine) Scheme() fhe.Scheme {
	return e.scheme
}

// Call runs fn as one state-changing call
func (e *Engine) Call(ctx context.Context, call host.Call, fn func(*Frame) error) error {
	return e.run(ctx, call, false, fn)
}

// View runs fn as a read-only call. Nothing it writes survives it.
func (e *Engine) View(ctx context.Context, call host.Call, fn func(*Frame) error) error {
	return e.run(ctx, call, true, fn)
}

func (e *Engine) run(ctx context.Context, call host.Call, readOnly bool, fn func(*Frame) error) error {
	err := e.sequencer.Run(ctx, func(now uint64) error {
		tx := backend.NewTx(e.db)
		f := e.newFrame(call, now, readOnly, tx)
		defer f.acl.ClearTransient()

		if err := fn(f); err != nil {
			tx.Discard()
			return err
		}
		if err := ctx.Err(); err != nil {
			tx.Discard()
			return err
		}
		if readOnly {
			tx.Discard()
			e.metrics.views.Inc()
			return nil
		}

		writes := tx.Dirty()
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit call: %w", err)
		}
		e.metrics.committed.Inc()
		e.metrics.writes.Observe(float64(writes))
		e.log.Debug("committed call",
			log.Stringer("contract", call.Contract),
			log.Stringer("caller", call.Caller),
			log.Uint64("timestamp", now),
			log.Int("writes", writes),
		)
		return nil
	})
	if err != nil {
		kind := errorKind(err)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			kind = kindCanceled
		}
		e.metrics.aborted.WithLabelValues(kind).Inc()
		e.log.Debug("call aborted",
			log.Stringer("contract", call.Contract),
			log.Stringer("caller", call.Caller),
			log.String("kind", kind),
			log.Err(err),
		)
	}
	return err
}

func (e *Engine) newFrame(call host.Call, now uint64, readOnly bool, tx *backend.Tx) *Frame {
	reg := registry.New(tx)
	if readOnly {
		reg = reg.WithViewSequence(e.views)
	}
	grants := acl.New(tx, reg)
	return &Frame{
		call:     call,
		now:      now,
		readOnly: readOnly,
		tx:       tx,
		registry: reg,
		acl:      grants,
		verifier: verifier.New(e.attestor, e.scheme, verifier.NewKVNonceSet(tx), reg),
		layer:    evaluator.New(e.scheme, reg, grants),
		storage:  backend.NewTable(tx, backend.StoragePrefix(call.Contract)),
	}
}
