// Package main is the entry point for the trading journal server.
//
// The binary serves the journal API by default and carries maintenance
// subcommands:
//   - serve:   run the HTTP API and the background scheduler
//   - migrate: apply the embedded schema and exit
//   - backup:  take one verified snapshot (uploaded when S3 is configured)
//   - version: print build information
package main

import (
	"fmt"
	"os"

	"github.com/aristath/tradejournal/internal/config"
	"github.com/aristath/tradejournal/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.Version=... -X main.BuildTime=..."
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tradejournal",
		Short:         "Trading journal API: accounts, trading plans and daily books",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newBackupCmd(),
		newVersionCmd(),
	)

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tradejournal %s (built %s)\n", Version, BuildTime)
		},
	}
}

// setup loads configuration and builds the logger.
// Configuration errors are logged with a fallback logger.
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Error().Err(err).Msg("Failed to load configuration")
		return nil, fallbackLog, err
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
		File:   cfg.LogFile,
	})

	return cfg, log, nil
}
