package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	api "taskflow/internal/adapter/http"
	"taskflow/internal/adapter/telemetry"
	"taskflow/pkg/config"
)

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API and, when telemetry is enabled, the Prometheus
metrics listener and the OTLP trace exporter.

Examples:
  taskflow serve
  taskflow serve --port 9000 --config taskflow.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)

			if err != nil {
				return err
			}

			if port != "" {
				cfg.Port = port
			}

			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "HTTP port (overrides PORT)")

	return cmd
}

func runServe(parent context.Context, cfg *config.AppConfig) error {
	if parent == nil {
		parent = context.Background()
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLokiLogger(cfg.ServiceName, cfg.Telemetry.LokiURL, !cfg.IsProduction())

	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	defer logger.Sync()

	container, err := telemetry.NewContainer(ctx, cfg, logger.Zap())

	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}

	defer func() {
		if err := container.Shutdown(context.Background()); err != nil {
			logger.Zap().Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	return api.StartServerWithConfig(ctx, cfg, logger, container)
}
