// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/luxfi/confidential"
	"github.com/luxfi/confidential/config"
	"github.com/luxfi/confidential/crypto/signature"
	"github.com/luxfi/confidential/verifier"
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt and attest an input for one program and caller",
	RunE: func(cmd *cobra.Command, args []string) error {
		typeName, _ := cmd.Flags().GetString("type")
		valueStr, _ := cmd.Flags().GetString("value")
		consumerHex, _ := cmd.Flags().GetString("consumer")
		submitterHex, _ := cmd.Flags().GetString("submitter")
		secretHex, _ := cmd.Flags().GetString("attestor-secret-key")

		t, err := confidential.ParseValueType(typeName)
		if err != nil {
			return err
		}
		value, err := uint256.FromDecimal(valueStr)
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", valueStr, err)
		}
		if !common.IsHexAddress(consumerHex) || !common.IsHexAddress(submitterHex) {
			return fmt.Errorf("consumer and submitter must be hex addresses")
		}
		secret, err := hexutil.Decode(secretHex)
		if err != nil {
			return fmt.Errorf("invalid attestor secret key: %w", err)
		}

		v, err := buildViper(cmd)
		if err != nil {
			return err
		}
		cfg, err := config.BuildConfig(v)
		if err != nil {
			return err
		}
		schemeName, err := signature.ParseScheme(cfg.AttestorScheme)
		if err != nil {
			return err
		}
		attestor, err := signature.LoadSigner(schemeName, secret)
		if err != nil {
			return err
		}
		scheme, err := cfg.Scheme()
		if err != nil {
			return err
		}

		in, err := verifier.NewProver(scheme, attestor).Encrypt(
			t,
			value,
			common.HexToAddress(consumerHex),
			common.HexToAddress(submitterHex),
		)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "nonce: %s\n", hexutil.Encode(in.Nonce[:]))
		fmt.Fprintf(cmd.OutOrStdout(), "material: %s\n", hexutil.Encode(in.Material))
		fmt.Fprintf(cmd.OutOrStdout(), "proof: %s\n", hexutil.Encode(in.Proof))
		return nil
	},
}

func init() {
	encryptCmd.Flags().StringP("type", "t", confidential.TypeUint32.String(), "Value type (ebool, euint8 ... euint64, eaddress)")
	encryptCmd.Flags().StringP("value", "v", "", "Plaintext value (decimal)")
	encryptCmd.Flags().String("consumer", "", "Program the input is for")
	encryptCmd.Flags().String("submitter", "", "Caller submitting the input")
	encryptCmd.Flags().String("attestor-secret-key", "", "Hex encoded attestor secret key")
	_ = encryptCmd.MarkFlagRequired("value")
	_ = encryptCmd.MarkFlagRequired("consumer")
	_ = encryptCmd.MarkFlagRequired("submitter")
	_ = encryptCmd.MarkFlagRequired("attestor-secret-key")
}
