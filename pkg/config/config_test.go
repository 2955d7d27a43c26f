package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "taskflow.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	assert.Equal(t, DatabaseSQLite, cfg.Database.Driver)
	assert.Equal(t, StorageDatabase, cfg.Storage.Driver)
	assert.Equal(t, 3*time.Hour, cfg.Auth.TokenTTL)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
port = "9000"
time_zone = "UTC"
cache_ttl = "10s"

[storage]
driver = "memory"

[rate_limits."POST /api/auth/login"]
requests = 3
window = "30s"
`)

	t.Setenv("PORT", "9100")
	t.Setenv("JWT_TTL", "45m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "UTC", cfg.TimeZone)
	assert.Equal(t, 10*time.Second, cfg.CacheTTL)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 45*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, RateLimitConfig{Requests: 3, Window: 30 * time.Second}, cfg.RateLimitConfigs["POST /api/auth/login"])
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("should reject an unknown storage driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "s3")

		_, err := Load(writeConfig(t, ""))
		assert.ErrorContains(t, err, "unknown storage driver")
	})

	t.Run("should require a redis url", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "redis")

		_, err := Load(writeConfig(t, ""))
		assert.ErrorContains(t, err, "REDIS_URL")
	})

	t.Run("should require a real secret in production", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")

		_, err := Load(writeConfig(t, ""))
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("should reject malformed booleans", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "maybe")

		_, err := Load(writeConfig(t, ""))
		assert.ErrorContains(t, err, "CACHE_ENABLED")
	})

	t.Run("should reject unknown time zones", func(t *testing.T) {
		_, err := Load(writeConfig(t, `time_zone = "Mars/Olympus"`))
		assert.ErrorContains(t, err, "time zone")
	})
}
