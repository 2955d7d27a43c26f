package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"

	StorageDatabase = "database"
	StorageRedis    = "redis"
	StorageMemory   = "memory"

	EnvironmentProduction = "production"

	developmentSecret = "taskflow-development-secret"
)

type AppConfig struct {
	ServiceName    string `toml:"service_name"`
	ServiceVersion string `toml:"service_version"`
	Environment    string `toml:"environment"`
	Port           string `toml:"port"`
	TimeZone       string `toml:"time_zone"`

	Database  DatabaseConfig  `toml:"database"`
	Storage   StorageConfig   `toml:"storage"`
	Auth      AuthConfig      `toml:"auth"`
	Telemetry TelemetryConfig `toml:"telemetry"`

	RateLimitEnabled bool                       `toml:"rate_limit_enabled"`
	RateLimitConfigs map[string]RateLimitConfig `toml:"rate_limits"`

	CacheEnabled bool          `toml:"cache_enabled"`
	CacheTTL     time.Duration `toml:"cache_ttl"`

	EnforceHTTPS bool     `toml:"enforce_https"`
	CORSOrigins  []string `toml:"cors_origins"`

	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver      string `toml:"driver"`
	SQLitePath  string `toml:"sqlite_path"`
	PostgresURL string `toml:"postgres_url"`
	LogSQL      bool   `toml:"log_sql"`
}

// StorageConfig selects where snapshots live. "database" reuses the
// configured database.
type StorageConfig struct {
	Driver   string `toml:"driver"`
	RedisURL string `toml:"redis_url"`
}

type AuthConfig struct {
	JWTSecret string        `toml:"jwt_secret"`
	TokenTTL  time.Duration `toml:"token_ttl"`
}

type TelemetryConfig struct {
	Enabled      bool   `toml:"enabled"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
	MetricsPort  string `toml:"metrics_port"`
	LokiURL      string `toml:"loki_url"`
}

type RateLimitConfig struct {
	Requests int           `toml:"requests"`
	Window   time.Duration `toml:"window"`
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		ServiceName:    "taskflow",
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Port:           "8080",
		TimeZone:       "Local",
		Database: DatabaseConfig{
			Driver:     DatabaseSQLite,
			SQLitePath: "taskflow.db",
		},
		Storage: StorageConfig{
			Driver: StorageDatabase,
		},
		Auth: AuthConfig{
			JWTSecret: developmentSecret,
			TokenTTL:  3 * time.Hour,
		},
		Telemetry: TelemetryConfig{
			Enabled:      false,
			OTLPEndpoint: "localhost:4317",
			MetricsPort:  "9090",
		},
		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"POST /api/auth/signup": {
				Requests: 5,
				Window:   time.Minute,
			},
			"POST /api/auth/login": {
				Requests: 10,
				Window:   time.Minute,
			},
			"/api/tasks": {
				Requests: 100,
				Window:   time.Minute,
			},
			"default": {
				Requests: 60,
				Window:   time.Minute,
			},
		},
		CacheEnabled:    true,
		CacheTTL:        3 * time.Second,
		EnforceHTTPS:    false,
		CORSOrigins:     []string{"*"},
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load builds the configuration from defaults, then the TOML file at path
// (or $TASKFLOW_CONFIG), then environment variables. A .env file in the
// working directory is loaded first when present.
func Load(path string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := GetDefaultConfig()

	if path == "" {
		path = os.Getenv("TASKFLOW_CONFIG")
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *AppConfig) applyEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.Environment, "APP_ENV")
	setString(&c.TimeZone, "TASKFLOW_TIME_ZONE")

	setString(&c.Database.Driver, "DATABASE_DRIVER")
	setString(&c.Database.SQLitePath, "DATABASE_PATH")
	setString(&c.Database.PostgresURL, "DATABASE_URL")

	setString(&c.Storage.Driver, "STORAGE_DRIVER")
	setString(&c.Storage.RedisURL, "REDIS_URL")

	setString(&c.Auth.JWTSecret, "JWT_SECRET")

	setString(&c.Telemetry.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setString(&c.Telemetry.MetricsPort, "METRICS_PORT")
	setString(&c.Telemetry.LokiURL, "LOKI_URL")

	if value := os.Getenv("CORS_ORIGINS"); value != "" {
		c.CORSOrigins = strings.Split(value, ",")
	}

	for name, target := range map[string]*bool{
		"DATABASE_LOG_SQL":   &c.Database.LogSQL,
		"TELEMETRY_ENABLED":  &c.Telemetry.Enabled,
		"RATE_LIMIT_ENABLED": &c.RateLimitEnabled,
		"CACHE_ENABLED":      &c.CacheEnabled,
		"ENFORCE_HTTPS":      &c.EnforceHTTPS,
	} {
		if err := setBool(target, name); err != nil {
			return err
		}
	}

	for name, target := range map[string]*time.Duration{
		"JWT_TTL":          &c.Auth.TokenTTL,
		"CACHE_TTL":        &c.CacheTTL,
		"SHUTDOWN_TIMEOUT": &c.ShutdownTimeout,
	} {
		if err := setDuration(target, name); err != nil {
			return err
		}
	}

	return nil
}

func (c *AppConfig) Validate() error {
	switch c.Database.Driver {
	case DatabaseSQLite, DatabasePostgres:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	switch c.Storage.Driver {
	case StorageDatabase, StorageMemory:
	case StorageRedis:
		if c.Storage.RedisURL == "" {
			return errors.New("redis storage requires REDIS_URL")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Database.Driver == DatabasePostgres && c.Database.PostgresURL == "" {
		return errors.New("postgres database requires DATABASE_URL")
	}

	if c.IsProduction() && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == developmentSecret) {
		return errors.New("JWT_SECRET must be set in production")
	}

	if c.Auth.TokenTTL <= 0 {
		return errors.New("token ttl must be positive")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

// Location is the zone in which "today" is computed for deadlines.
func (c *AppConfig) Location() (*time.Location, error) {
	if c.TimeZone == "" || c.TimeZone == "Local" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(c.TimeZone)

	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
	}

	return loc, nil
}

func setString(target *string, name string) {
	if value := os.Getenv(name); value != "" {
		*target = value
	}
}

func setBool(target *bool, name string) error {
	value := os.Getenv(name)

	if value == "" {
		return nil
	}

	parsed, err := strconv.ParseBool(value)

	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}

	*target = parsed
	return nil
}

func setDuration(target *time.Duration, name string) error {
	value := os.Getenv(name)

	if value == "" {
		return nil
	}

	parsed, err := time.ParseDuration(value)

	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}

	*target = parsed
	return nil
}
