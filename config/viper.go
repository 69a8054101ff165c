// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// NewConfig builds and validates the configuration held by v
func NewConfig(v *viper.Viper) (Config, error) {
	cfg, err := BuildConfig(v)
	if err != nil {
		return cfg, err
	}
	if err = cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("failed to validate configuration: %w", err)
	}
	return cfg, nil
}

// BuildFlagSet declares every configuration key as a flag
func BuildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("confidential", pflag.ContinueOnError)
	AddFlags(fs)
	return fs
}

// AddFlags declares every configuration key on fs
func AddFlags(fs *pflag.FlagSet) {
	fs.String(ConfigFileKey, "", "Path to a JSON configuration file")
	fs.String(LogLevelKey, defaultLogLevel, "Log level")
	fs.String(CoprocessorKey, defaultCoprocessor, "Coprocessor backend: mock or bfv")
	fs.String(AttestorSchemeKey, defaultAttestorScheme, "Input attestor signature scheme: bls or ecdsa")
	fs.String(AttestorPublicKeyKey, "", "Hex encoded input attestor public key")
	fs.String(DataDirKey, "", "State directory; state is kept in memory when empty")
	fs.Int(StateCacheSizeKey, DefaultStateCacheSize, "Number of state entries cached in memory")
	fs.Uint16(MetricsPortKey, 0, "Port to serve prometheus metrics on; 0 disables")
}

// BuildViper binds fs and the environment. A config file is read if one is
// named by flag or by the CONFIG_FILE environment variable.
func BuildViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.AutomaticEnv()
	// Map flag names to env var names. Flags are capitalized, and hyphens are replaced with underscores.
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	filename := v.GetString(ConfigFileKey)
	if filename == "" {
		filename = os.Getenv(ConfigFileEnvKey)
	}
	if filename != "" {
		v.SetConfigFile(filename)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
		}
	}
	return v, nil
}

func SetDefaultConfigValues(v *viper.Viper) {
	v.SetDefault(LogLevelKey, defaultLogLevel)
	v.SetDefault(CoprocessorKey, defaultCoprocessor)
	v.SetDefault(AttestorSchemeKey, defaultAttestorScheme)
	v.SetDefault(StateCacheSizeKey, DefaultStateCacheSize)
}

// BuildConfig constructs the config using Viper.
// The following precedence order is used. Each item takes precedence over the item below it:
//  1. Flags
//  2. Environment
//  3. Config file
//  4. Defaults
func BuildConfig(v *viper.Viper) (Config, error) {
	SetDefaultConfigValues(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal viper config: %w", err)
	}
	cfg.DataDir = os.ExpandEnv(cfg.DataDir)
	return cfg, nil
}
