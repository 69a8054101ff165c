// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxfi/confidential/auction"
	"github.com/luxfi/confidential/host"
)

var phaseCmd = &cobra.Command{
	Use:   "phase",
	Short: "Compute the phase of a sealed-bid auction at a timestamp",
	RunE: func(cmd *cobra.Command, args []string) error {
		created, _ := cmd.Flags().GetUint64("created")
		bidding, _ := cmd.Flags().GetUint64("bidding")
		reveal, _ := cmd.Flags().GetUint64("reveal")
		now, _ := cmd.Flags().GetUint64("now")
		if !cmd.Flags().Changed("now") {
			now = host.SystemClock{}.Now()
		}

		d := auction.Deadlines{
			Created: created,
			Bidding: created + bidding,
			Reveal:  created + bidding + reveal,
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", auction.PhaseAt(now, d))
		return nil
	},
}

func init() {
	phaseCmd.Flags().Uint64("created", 0, "Creation timestamp (seconds)")
	phaseCmd.Flags().Uint64("bidding", 0, "Bidding duration (seconds)")
	phaseCmd.Flags().Uint64("reveal", 0, "Reveal duration (seconds)")
	phaseCmd.Flags().Uint64("now", 0, "Timestamp to evaluate at; defaults to the current time")
	_ = phaseCmd.MarkFlagRequired("created")
}
