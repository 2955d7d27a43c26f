package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"taskflow/internal/adapter/http/routes"
	"taskflow/internal/adapter/telemetry"
	"taskflow/pkg/config"

	"go.uber.org/zap"
)

// StartServerWithConfig serves the API until ctx is cancelled, then drains
// in-flight requests for at most cfg.ShutdownTimeout.
func StartServerWithConfig(ctx context.Context, cfg *config.AppConfig, logger *config.LokiLogger, telemetryContainer *telemetry.Container) error {
	probe := telemetryContainer.NewTelemetryProbe(logger.Zap())

	container, err := NewContainer(ctx, cfg, logger, probe, telemetryContainer.AppMetrics)

	if err != nil {
		return err
	}

	defer container.Close()

	router := routes.SetupRouterWithConfig(routes.HandlersConfig{
		AuthHandler:   container.AuthHandler,
		TaskHandler:   container.TaskHandler,
		HealthHandler: container.HealthHandler,
	}, routes.Dependencies{
		Config:  cfg,
		Logger:  logger,
		Metrics: telemetryContainer.AppMetrics,
		Tokens:  container.Tokens,
		Gate:    container.Gate,
		Cache:   container.Cache,
	})

	logger.Zap().Info("Server starting",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("database", cfg.Database.Driver),
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("rate_limit_enabled", cfg.RateLimitEnabled),
		zap.Bool("cache_enabled", cfg.CacheEnabled),
		zap.Bool("https_enforced", cfg.EnforceHTTPS))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	serveErr := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}

		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Zap().Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
