package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/finview-dev/finview/internal/logging"
	"github.com/finview-dev/finview/internal/plaid"
	"github.com/finview-dev/finview/internal/server"
)

func newServeCommand() *cobra.Command {
	var configPath string
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload UI and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, addr)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "finview.yaml", "config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

func runServe(configPath, addr string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// The fetch endpoint stays off without credentials; uploads still
	// work.
	var fetcher server.Fetcher
	if cfg.Plaid.ClientID != "" && cfg.Plaid.Secret != "" {
		client, err := plaid.NewClient(cfg.Plaid)
		if err != nil {
			return err
		}
		fetcher = client
	} else {
		logger.Warn("plaid credentials not configured, fetch endpoint disabled")
	}

	srv := server.New(cfg.Server, fetcher, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(ctx)
	}
}
