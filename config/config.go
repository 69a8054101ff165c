// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"

	"github.com/luxfi/confidential/backend"
	"github.com/luxfi/confidential/crypto/fhe"
	"github.com/luxfi/confidential/crypto/fhe/bfv"
	"github.com/luxfi/confidential/crypto/signature"
)

const leveldbHandles = 64

// Config is the node configuration
type Config struct {
	LogLevel          string `mapstructure:"log-level" json:"log-level"`
	Coprocessor       string `mapstructure:"coprocessor" json:"coprocessor"`
	AttestorScheme    string `mapstructure:"attestor-scheme" json:"attestor-scheme"`
	AttestorPublicKey string `mapstructure:"attestor-public-key" json:"attestor-public-key"`
	DataDir           string `mapstructure:"data-dir" json:"data-dir"`
	StateCacheSize    int    `mapstructure:"state-cache-size" json:"state-cache-size"`
	MetricsPort       uint16 `mapstructure:"metrics-port" json:"metrics-port"`
}

// Validate checks the configuration without opening anything
func (c *Config) Validate() error {
	if _, err := log.ToLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	switch c.Coprocessor {
	case CoprocessorMock, CoprocessorBFV:
	default:
		return fmt.Errorf("invalid coprocessor %q", c.Coprocessor)
	}
	// bfv keys live only as long as the process
	if c.Coprocessor == CoprocessorBFV && c.DataDir != "" {
		return fmt.Errorf("coprocessor %q cannot be used with %s: its keys are not persisted", CoprocessorBFV, DataDirKey)
	}
	if _, err := signature.ParseScheme(c.AttestorScheme); err != nil {
		return err
	}
	if c.AttestorPublicKey == "" {
		return errors.New("attestor public key is required")
	}
	if _, err := c.Attestor(); err != nil {
		return err
	}
	if c.StateCacheSize <= 0 {
		return fmt.Errorf("state cache size must be positive, got %d", c.StateCacheSize)
	}
	return nil
}

// Attestor builds the verifier for the configured input attestor
func (c *Config) Attestor() (signature.Verifier, error) {
	scheme, err := signature.ParseScheme(c.AttestorScheme)
	if err != nil {
		return nil, err
	}
	return signature.NewVerifier(scheme, common.FromHex(c.AttestorPublicKey))
}

// Scheme builds the configured coprocessor
func (c *Config) Scheme() (fhe.Scheme, error) {
	switch c.Coprocessor {
	case CoprocessorMock:
		return fhe.NewMock(), nil
	case CoprocessorBFV:
		return bfv.New()
	default:
		return nil, fmt.Errorf("invalid coprocessor %q", c.Coprocessor)
	}
}

// Backend opens the state backend. Without a data directory state lives in
// memory.
func (c *Config) Backend() (backend.Backend, error) {
	var (
		db  backend.Backend
		err error
	)
	if c.DataDir == "" {
		db = backend.NewMemoryBackend()
	} else {
		db, err = backend.NewLevelDBBackend(c.DataDir, c.StateCacheSize/256+16, leveldbHandles)
		if err != nil {
			return nil, err
		}
	}
	return backend.NewCachedBackend(db, c.StateCacheSize), nil
}
