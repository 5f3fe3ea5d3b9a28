package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eringen/folio"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := folio.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logger, err := newLogger(verbose || cfg.Verbose)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer logger.Sync() //nolint:errcheck

		app := folio.New(cfg, folio.WithLogger(logger))
		defer func() {
			if err := app.Close(); err != nil {
				logger.Warn("close", zap.Error(err))
			}
		}()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("starting folio",
			zap.String("source", cfg.Source),
			zap.String("addr", cfg.Addr))
		return app.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
