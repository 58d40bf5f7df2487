package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, RateLimitConfig{Enabled: true, RequestsPerSecond: 10, Burst: 20, UploadsPerMinute: 10}, cfg.Server.RateLimit)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 60, cfg.Dashboard.CacheTTL)
	assert.Equal(t, int64(5*1024*1024), cfg.Storage.MaxImageSize)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_ENABLED", "TRUE")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("DASHBOARD_CACHE_TTL", "120")
	t.Setenv("STORAGE_MAX_IMAGE_SIZE_MB", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("SERVER_RATE_LIMIT", "false")
	t.Setenv("SERVER_RATE_LIMIT_RPS", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr())
	assert.Equal(t, 120, cfg.Dashboard.CacheTTL)
	assert.Equal(t, int64(2*1024*1024), cfg.Storage.MaxImageSize)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.False(t, cfg.Server.RateLimit.Enabled)
	assert.Equal(t, 50, cfg.Server.RateLimit.RequestsPerSecond)
}

func TestValidateProduction(t *testing.T) {
	cfg := &Config{
		Environment: "production",
		JWT:         JWTConfig{SecretKey: "your-secret-key-change-in-production"},
		Database:    DatabaseConfig{Password: "secret"},
		Storage:     StorageConfig{MaxImageSize: 1},
	}
	assert.Error(t, cfg.Validate())

	cfg.JWT.SecretKey = "a-real-secret"
	assert.NoError(t, cfg.Validate())

	cfg.Database.Password = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRateLimits(t *testing.T) {
	cfg := &Config{
		Server:  ServerConfig{RateLimit: RateLimitConfig{Enabled: true, RequestsPerSecond: 10, Burst: 0, UploadsPerMinute: 10}},
		Storage: StorageConfig{MaxImageSize: 1},
	}
	assert.Error(t, cfg.Validate())

	cfg.Server.RateLimit.Enabled = false
	assert.NoError(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5432", User: "app", Password: "pw", Database: "inventory", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=inventory sslmode=disable", db.DSN())
}
