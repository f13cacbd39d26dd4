package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenValidityDuration)
	assert.Equal(t, 100, cfg.RateLimitPerMinute)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	cfg.DBUser = "svc"
	cfg.DBPassword = "pw"
	cfg.DBHost = "db.internal"
	cfg.DBPort = 6432
	cfg.DBName = "accounts"
	cfg.DBSSLMode = "require"

	assert.Equal(t, "postgres://svc:pw@db.internal:6432/accounts?sslmode=require", cfg.DatabaseDSN())
}

func TestParseEnv_Overlays(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "30")
	t.Setenv("REFRESH_TOKEN_EXPIRE_DAYS", "14")
	t.Setenv("DB_CONN_MAX_LIFETIME", "45m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example.com, http://b.example.com,")

	parseEnv(cfg)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Equal(t, "from-env", cfg.SecretKey)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 14*24*time.Hour, cfg.RefreshTokenValidityDuration)
	assert.Equal(t, 45*time.Minute, cfg.DBConnMaxLifetime)
	assert.Equal(t, []string{"http://a.example.com", "http://b.example.com"}, cfg.CORSAllowedOrigins)
}

func TestParseEnv_MalformedValuesIgnored(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("DB_CONN_MAX_LIFETIME", "sideways")

	parseEnv(cfg)

	require.Equal(t, 8000, cfg.Port)
	require.Equal(t, 30*time.Minute, cfg.DBConnMaxLifetime)
}
