// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/common/hexutil"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/luxfi/confidential"
	"github.com/luxfi/confidential/auction"
	"github.com/luxfi/confidential/config"
	"github.com/luxfi/confidential/crypto/signature"
	"github.com/luxfi/confidential/engine"
	"github.com/luxfi/confidential/gateway"
	"github.com/luxfi/confidential/host"
	"github.com/luxfi/confidential/scoreboard"
	"github.com/luxfi/confidential/verifier"
)

var (
	demoProgram = common.HexToAddress("0x0000000000000000000000000000000000d3e0")
	demoAlice   = common.HexToAddress("0x000000000000000000000000000000000000a11c")
	demoBob     = common.HexToAddress("0x000000000000000000000000000000000000b0b0")
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run an example program against a local engine",
}

var demoScoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Submit two encrypted scores and compare them",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDemo(cmd)
		if err != nil {
			return err
		}
		defer d.close()
		return d.runScore(cmd.Context(), cmd.OutOrStdout())
	},
}

var demoAuctionCmd = &cobra.Command{
	Use:   "auction",
	Short: "Run a sealed-bid auction with two bidders",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDemo(cmd)
		if err != nil {
			return err
		}
		defer d.close()
		return d.runAuction(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	demoCmd.AddCommand(demoScoreCmd)
	demoCmd.AddCommand(demoAuctionCmd)
}

type demo struct {
	log     log.Logger
	engine  *engine.Engine
	gateway *gateway.Gateway
	prover  *verifier.Prover
	clock   *host.ManualClock
	closeDB func() error
}

// newDemo builds an engine from the configuration, attested by a key
// generated for this run
func newDemo(cmd *cobra.Command) (*demo, error) {
	v, err := buildViper(cmd)
	if err != nil {
		return nil, err
	}
	config.SetDefaultConfigValues(v)
	scheme, err := signature.ParseScheme(v.GetString(config.AttestorSchemeKey))
	if err != nil {
		return nil, err
	}
	attestor, err := signature.NewSigner(scheme)
	if err != nil {
		return nil, err
	}
	v.Set(config.AttestorPublicKeyKey, hexutil.Encode(attestor.PublicKey()))

	cfg, err := config.NewConfig(v)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	verifierKey, err := cfg.Attestor()
	if err != nil {
		return nil, err
	}
	fheScheme, err := cfg.Scheme()
	if err != nil {
		return nil, err
	}
	db, err := cfg.Backend()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	clock := host.NewManualClock(host.SystemClock{}.Now())
	e, err := engine.New(engine.Config{
		Scheme:     fheScheme,
		Attestor:   verifierKey,
		Backend:    db,
		Clock:      clock,
		Log:        logger,
		Registerer: registry,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	startMetrics(logger, cfg.MetricsPort, registry)

	logger.Info("engine ready",
		log.String("coprocessor", cfg.Coprocessor),
		log.String("attestor", cfg.AttestorScheme),
		log.String("dataDir", cfg.DataDir),
	)
	return &demo{
		log:     logger,
		engine:  e,
		gateway: gateway.New(e, logger),
		prover:  verifier.NewProver(fheScheme, attestor),
		clock:   clock,
		closeDB: db.Close,
	}, nil
}

func (d *demo) close() {
	if err := d.closeDB(); err != nil {
		d.log.Warn("failed to close state", log.Err(err))
	}
}

func (d *demo) call(ctx context.Context, caller common.Address, fn func(*engine.Frame) error) error {
	return d.engine.Call(ctx, host.Call{Contract: demoProgram, Caller: caller}, fn)
}

func (d *demo) input(t confidential.ValueType, value uint64, submitter common.Address) (*verifier.Input, error) {
	return d.prover.Encrypt(t, uint256.NewInt(value), demoProgram, submitter)
}

// reveal decrypts id for the caller of f and opens the sealed result
func (d *demo) reveal(f *engine.Frame, id ids.ID) (*uint256.Int, error) {
	pub, priv, err := gateway.GenerateKey()
	if err != nil {
		return nil, err
	}
	sealed, err := d.gateway.Reveal(f, id, pub)
	if err != nil {
		return nil, err
	}
	return gateway.Open(sealed, pub, priv)
}

func (d *demo) runScore(ctx context.Context, w io.Writer) error {
	board := scoreboard.New(confidential.TypeUint32)
	scores := []struct {
		player common.Address
		value  uint64
	}{
		{demoAlice, 1500},
		{demoBob, 2000},
	}
	for _, s := range scores {
		in, err := d.input(confidential.TypeUint32, s.value, s.player)
		if err != nil {
			return err
		}
		err = d.call(ctx, s.player, func(f *engine.Frame) error {
			h, err := board.Submit(f, in.Material, in.Proof)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s submitted %s\n", s.player, h)
			return nil
		})
		if err != nil {
			return err
		}
	}

	return d.call(ctx, demoBob, func(f *engine.Frame) error {
		gt, err := board.CompareScores(f, demoBob, demoAlice)
		if err != nil {
			return err
		}
		v, err := d.reveal(f, gt.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "bob beats alice: %t\n", !v.IsZero())

		gte, err := board.CompareAgainstThreshold(f, demoBob, 1000)
		if err != nil {
			return err
		}
		v, err = d.reveal(f, gte.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "bob reached 1000: %t\n", !v.IsZero())

		stats, err := board.Stats(f)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "players: %d submissions: %d\n", stats.Count, stats.Sum)
		return nil
	})
}

func (d *demo) runAuction(ctx context.Context, w io.Writer) error {
	const (
		biddingDuration = 3600
		revealDuration  = 3600
	)
	a := auction.New(confidential.TypeUint64)
	err := d.call(ctx, demoAlice, func(f *engine.Frame) error {
		deadlines, err := a.Open(f, biddingDuration, revealDuration)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "bidding ends at %d, reveal ends at %d\n", deadlines.Bidding, deadlines.Reveal)
		return nil
	})
	if err != nil {
		return err
	}

	bids := []struct {
		bidder common.Address
		value  uint64
	}{
		{demoAlice, 700},
		{demoBob, 900},
	}
	for _, b := range bids {
		in, err := d.input(confidential.TypeUint64, b.value, b.bidder)
		if err != nil {
			return err
		}
		err = d.call(ctx, b.bidder, func(f *engine.Frame) error {
			i, err := a.SubmitBid(f, in.Material, in.Proof)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s placed bid %d\n", b.bidder, i)
			return nil
		})
		if err != nil {
			return err
		}
	}

	d.clock.Advance(biddingDuration)
	return d.call(ctx, demoBob, func(f *engine.Frame) error {
		phase, err := a.Phase(f)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "phase: %s\n", phase)

		gt, err := a.CompareBid(f, 1, 0)
		if err != nil {
			return err
		}
		v, err := d.reveal(f, gt.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "bid 1 beats bid 0: %t\n", !v.IsZero())
		return nil
	})
}
