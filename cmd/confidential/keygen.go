// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"

	"github.com/luxfi/geth/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/luxfi/confidential/config"
	"github.com/luxfi/confidential/crypto/signature"
	"github.com/luxfi/confidential/gateway"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an input attestor key or a decryption recipient key",
	RunE: func(cmd *cobra.Command, args []string) error {
		recipient, _ := cmd.Flags().GetBool("recipient")
		if recipient {
			pub, priv, err := gateway.GenerateKey()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "public-key: %s\n", hexutil.Encode(pub[:]))
			fmt.Fprintf(cmd.OutOrStdout(), "secret-key: %s\n", hexutil.Encode(priv[:]))
			return nil
		}

		v, err := buildViper(cmd)
		if err != nil {
			return err
		}
		scheme, err := signature.ParseScheme(v.GetString(config.AttestorSchemeKey))
		if err != nil {
			return err
		}
		signer, err := signature.NewSigner(scheme)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "scheme: %s\n", scheme)
		fmt.Fprintf(cmd.OutOrStdout(), "public-key: %s\n", hexutil.Encode(signer.PublicKey()))
		fmt.Fprintf(cmd.OutOrStdout(), "secret-key: %s\n", hexutil.Encode(signer.SecretKey()))
		return nil
	},
}

func init() {
	keygenCmd.Flags().Bool("recipient", false, "Generate a curve25519 key for receiving sealed plaintexts")
}
