// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luxfi/confidential/config"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "confidential",
	Short: "Capability-gated computation over encrypted values",
	Long: `confidential runs programs over encrypted values. Inputs are accepted
only with an attestation binding them to one program and one caller, and
every derived value must be explicitly granted before anyone may use or
decrypt it.`,
	Version:       fmt.Sprintf("%s (built %s)", version, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	config.AddFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(phaseCmd)
	rootCmd.AddCommand(demoCmd)
}

func buildViper(cmd *cobra.Command) (*viper.Viper, error) {
	return config.BuildViper(cmd.Flags())
}

func newLogger(cfg config.Config) (log.Logger, error) {
	logLevel, err := log.ToLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error reading log level from config: %w", err)
	}
	core := log.NewWrappedCore(
		logLevel,
		os.Stdout,
		log.JSON.ConsoleEncoder(),
	)
	return log.NewLogger("confidential", *core), nil
}

// startMetrics serves registry on the configured port, if any
func startMetrics(logger log.Logger, port uint16, registry *prometheus.Registry) {
	if port == 0 {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	go func() {
		addr := fmt.Sprintf(":%d", port)
		logger.Info("serving metrics", log.String("addr", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("metrics server stopped", log.Err(err))
		}
	}()
}
