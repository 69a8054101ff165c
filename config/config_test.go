// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/luxfi/geth/common/hexutil"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/confidential/crypto/fhe"
	"github.com/luxfi/confidential/crypto/signature"
)

func attestorKey(t *testing.T, scheme signature.Scheme) string {
	s, err := signature.NewSigner(scheme)
	require.NoError(t, err)
	return hexutil.Encode(s.PublicKey())
}

func writeConfig(t *testing.T, values map[string]interface{}) string {
	b, err := json.Marshal(values)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestBuildConfigPrecedence(t *testing.T) {
	require := require.New(t)

	key := attestorKey(t, signature.SchemeECDSA)
	path := writeConfig(t, map[string]interface{}{
		LogLevelKey:          "warn",
		AttestorSchemeKey:    "ecdsa",
		AttestorPublicKeyKey: key,
		StateCacheSizeKey:    128,
	})

	fs := BuildFlagSet()
	require.NoError(fs.Parse([]string{"--" + ConfigFileKey, path, "--" + LogLevelKey, "debug"}))
	v, err := BuildViper(fs)
	require.NoError(err)
	cfg, err := NewConfig(v)
	require.NoError(err)

	require.Equal("debug", cfg.LogLevel)
	require.Equal("ecdsa", cfg.AttestorScheme)
	require.Equal(key, cfg.AttestorPublicKey)
	require.Equal(128, cfg.StateCacheSize)
	require.Equal(CoprocessorMock, cfg.Coprocessor)

	scheme, err := cfg.Scheme()
	require.NoError(err)
	require.IsType(&fhe.Mock{}, scheme)

	db, err := cfg.Backend()
	require.NoError(err)
	require.NoError(db.Close())
}

func TestEnvOverride(t *testing.T) {
	require := require.New(t)

	t.Setenv("ATTESTOR_PUBLIC_KEY", attestorKey(t, signature.SchemeBLS))
	t.Setenv("DATA_DIR", t.TempDir())

	fs := BuildFlagSet()
	require.NoError(fs.Parse(nil))
	v, err := BuildViper(fs)
	require.NoError(err)
	cfg, err := NewConfig(v)
	require.NoError(err)
	require.Equal("bls", cfg.AttestorScheme)
	require.NotEmpty(cfg.DataDir)

	verifier, err := cfg.Attestor()
	require.NoError(err)
	require.Equal(signature.SchemeBLS, verifier.Scheme())

	db, err := cfg.Backend()
	require.NoError(err)
	require.NoError(db.Close())
}

func TestValidate(t *testing.T) {
	key := attestorKey(t, signature.SchemeBLS)
	valid := Config{
		LogLevel:          "info",
		Coprocessor:       CoprocessorMock,
		AttestorScheme:    "bls",
		AttestorPublicKey: key,
		StateCacheSize:    1,
	}
	require.NoError(t, valid.Validate())

	inMemoryBFV := valid
	inMemoryBFV.Coprocessor = CoprocessorBFV
	require.NoError(t, inMemoryBFV.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"coprocessor", func(c *Config) { c.Coprocessor = "gpu" }},
		{"scheme", func(c *Config) { c.AttestorScheme = "ringtail" }},
		{"missing key", func(c *Config) { c.AttestorPublicKey = "" }},
		{"key for other scheme", func(c *Config) { c.AttestorScheme = "ecdsa" }},
		{"cache size", func(c *Config) { c.StateCacheSize = 0 }},
		{"bfv with persisted state", func(c *Config) {
			c.Coprocessor = CoprocessorBFV
			c.DataDir = t.TempDir()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
