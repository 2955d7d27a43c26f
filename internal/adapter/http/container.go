package http

import (
	"context"
	"errors"
	"fmt"

	"taskflow/internal/adapter/database/memory"
	"taskflow/internal/adapter/database/postgres"
	pgrepository "taskflow/internal/adapter/database/postgres/repository"
	"taskflow/internal/adapter/database/redis"
	"taskflow/internal/adapter/database/sqlite"
	sqliterepository "taskflow/internal/adapter/database/sqlite/repository"
	"taskflow/internal/adapter/http/handler"
	"taskflow/internal/adapter/http/middleware"
	"taskflow/internal/core/port"
	"taskflow/internal/core/service"
	"taskflow/pkg/auth"
	"taskflow/pkg/config"
	"taskflow/pkg/tracing"

	"github.com/rs/zerolog"
)

type Container struct {
	UserRepo  port.UserRepository
	Snapshots port.SnapshotRepository

	Tokens      *auth.JWT
	Gate        *service.SessionGate
	AuthUseCase port.AuthService

	Cache         *middleware.ResponseCache
	AuthHandler   *handler.AuthHandler
	TaskHandler   *handler.TaskHandler
	HealthHandler *handler.HealthHandler

	closers []func() error
}

// NewContainer opens the configured user database and snapshot store and
// wires services and handlers on top of them.
func NewContainer(ctx context.Context, cfg *config.AppConfig, logger *config.LokiLogger, probe port.Telemetry, metrics *tracing.AppMetrics) (*Container, error) {
	location, err := cfg.Location()

	if err != nil {
		return nil, err
	}

	c := &Container{}
	checks := map[string]handler.Pinger{}

	var sqliteDB *sqlite.DB
	var postgresDB *postgres.DB

	switch cfg.Database.Driver {
	case config.DatabasePostgres:
		postgresDB, err = postgres.NewDB(ctx, cfg.Database.PostgresURL)

		if err != nil {
			return nil, err
		}

		c.closers = append(c.closers, func() error { postgresDB.Close(); return nil })
		c.UserRepo = pgrepository.NewUserRepository(postgresDB, logger.Zap())
		checks["postgres"] = handler.PingFunc(postgresDB.Ping)
	default:
		opts := sqlite.Options{Path: cfg.Database.SQLitePath, LogLevel: zerolog.DebugLevel}

		if cfg.Database.LogSQL {
			opts.SQLWriter = zerolog.NewConsoleWriter()
		}

		sqliteDB, err = sqlite.NewDB(opts)

		if err != nil {
			return nil, err
		}

		c.closers = append(c.closers, sqliteDB.Close)
		c.UserRepo = sqliterepository.NewUserRepository(sqliteDB, probe)
		checks["sqlite"] = sqliteDB
	}

	switch cfg.Storage.Driver {
	case config.StorageRedis:
		c.Snapshots, err = redis.NewSnapshotRepository(ctx, cfg.Storage.RedisURL)

		if err != nil {
			c.Close()
			return nil, err
		}

		c.closers = append(c.closers, c.Snapshots.Close)
	case config.StorageMemory:
		c.Snapshots = memory.NewSnapshotRepository()
	default:
		// shares the user database; its lifetime is owned by the closers above
		if postgresDB != nil {
			c.Snapshots = pgrepository.NewSnapshotRepository(postgresDB)
		} else {
			c.Snapshots = sqliterepository.NewSnapshotRepository(sqliteDB, probe)
		}
	}

	c.Tokens = auth.NewJWT(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	c.Gate = service.NewSessionGate(service.DashboardOptions{
		Snapshots: c.Snapshots,
		Telemetry: probe,
		Logger:    logger.Zap(),
		Location:  location,
	})
	c.AuthUseCase = service.NewAuthService(c.UserRepo, c.Gate, c.Tokens, logger.Zap())

	if cfg.CacheEnabled {
		c.Cache = middleware.NewResponseCache(cfg.CacheTTL, logger.Zap(), metrics)
	}

	var invalidator handler.CacheInvalidator

	if c.Cache != nil {
		invalidator = c.Cache
	}

	c.AuthHandler = handler.NewAuthHandler(c.AuthUseCase, logger.Zap())
	c.TaskHandler = handler.NewTaskHandler(invalidator, logger.Zap())
	c.HealthHandler = handler.NewHealthHandler(checks)

	return c, nil
}

func (c *Container) Close() error {
	var errs []error

	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close container: %w", errors.Join(errs...))
	}

	return nil
}
