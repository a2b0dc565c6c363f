package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/km-arc/go-scopes/app"
	"github.com/km-arc/go-scopes/framework/config"
	"github.com/km-arc/go-scopes/framework/logging"
)

var (
	version  = "dev"
	envFiles []string
)

var rootCmd = &cobra.Command{
	Use:           "go-scopes",
	Short:         "Inspect and serve the example scope directory",
	Long:          `go-scopes builds the example application's scope directory and lets you resolve from it, dump it, or serve it over HTTP.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&envFiles, "env-file", "e", nil,
		"env files to load before reading SCOPES_* variables (default: .env)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// bootstrap loads configuration and builds the example kernel.
func bootstrap() (*app.Kernel, *zap.Logger, error) {
	cfg := config.Load(envFiles...)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}

	k, err := app.Bootstrap(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return k, logger, nil
}
