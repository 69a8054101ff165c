// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package config

const (
	// Command line option keys
	ConfigFileKey = "config-file"
	VersionKey    = "version"
	HelpKey       = "help"

	// Environment variable keys
	ConfigFileEnvKey = "CONFIG_FILE"

	// Top-level configuration keys
	LogLevelKey          = "log-level"
	CoprocessorKey       = "coprocessor"
	AttestorSchemeKey    = "attestor-scheme"
	AttestorPublicKeyKey = "attestor-public-key"
	DataDirKey           = "data-dir"
	StateCacheSizeKey    = "state-cache-size"
	MetricsPortKey       = "metrics-port"
)

const (
	CoprocessorMock = "mock"
	CoprocessorBFV  = "bfv"
)

const (
	defaultLogLevel       = "info"
	defaultCoprocessor    = CoprocessorMock
	defaultAttestorScheme = "bls"

	DefaultStateCacheSize = 4096
)
