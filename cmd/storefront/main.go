// Command storefront serves the storefront over HTTP and offers a few
// catalog and cart utilities.
package main

import (
	"fmt"
	"os"

	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const serviceName = "storefront"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Storefront with a catalog, a persistent cart and server-rendered pages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")

	load := func() (config.Config, *zap.Logger, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, nil, fmt.Errorf("config.Load: %w", err)
		}

		log, err := logger.New(logger.Options{Service: serviceName, Env: cfg.Log.Env, Level: cfg.Log.Level})
		if err != nil {
			return config.Config{}, nil, fmt.Errorf("logger.New: %w", err)
		}

		return cfg, log, nil
	}

	cmd.AddCommand(serveCmd(load), searchCmd(load), cartCmd(load))

	return cmd
}

type loader func() (config.Config, *zap.Logger, error)
