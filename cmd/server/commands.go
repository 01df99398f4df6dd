package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/tradejournal/internal/database"
	"github.com/aristath/tradejournal/internal/di"
	"github.com/aristath/tradejournal/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background jobs (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

// runServe wires dependencies, starts the server and scheduler,
// and blocks until SIGINT or SIGTERM.
func runServe() error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	log.Info().Str("version", Version).Msg("Starting trading journal")

	container, err := di.Wire(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to wire dependencies")
		return err
	}
	defer container.Close()

	srv := server.New(server.Config{
		Log:         log,
		Port:        cfg.Port,
		DevMode:     cfg.DevMode,
		CORSOrigins: cfg.CORSOrigins,
		Version:     Version,
		Container:   container,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	container.Scheduler.Start()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case <-quit:
	case serveErr = <-errCh:
		log.Error().Err(serveErr).Msg("HTTP server failed")
	}

	log.Info().Msg("Shutting down server...")

	container.Scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
	return serveErr
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}

			db, err := database.New(database.Config{
				Path:    cfg.DatabasePath(),
				Profile: database.ProfileLedger,
				Name:    "journal",
			})
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(); err != nil {
				log.Error().Err(err).Msg("Migration failed")
				return err
			}

			log.Info().Str("path", db.Path()).Msg("Schema applied")
			return nil
		},
	}
}

func newBackupCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Take a verified database snapshot and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}

			container, err := di.Wire(cfg, log)
			if err != nil {
				return err
			}
			defer container.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			result, err := container.BackupService.Run(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %d bytes %s\n", result.Path, result.SizeBytes, result.Checksum)
			if result.RemoteKey != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "uploaded as %s\n", result.RemoteKey)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "maximum time for snapshot and upload")
	return cmd
}
