// Package config handles configuration for the account service,
// including defaults, JSON overlay, environment variables, and
// command-line flags.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config holds runtime settings for the account service.
//
// It is built once at startup and injected into constructors as an
// immutable value; components never reach for a global settings object.
type Config struct {
	AppName   string
	Host      string
	Port      int
	APIPrefix string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Connection-pool sizing, mapped onto database/sql pool knobs.
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBConnMaxIdleTime time.Duration

	SecretKey                    string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration

	RateLimitPerMinute int

	// Origins allowed by the CORS middleware. An empty list disables
	// cross-origin handling entirely.
	CORSAllowedOrigins []string

	LogLevel string
}

// Addr returns the host:port pair the HTTP server binds to.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DatabaseDSN composes a pgx-compatible PostgreSQL DSN from the discrete
// database settings.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.AppName = "accounts"
	c.Host = "0.0.0.0"
	c.Port = 8000
	c.APIPrefix = "/api/v1"

	c.DBHost = "localhost"
	c.DBPort = 5432
	c.DBUser = "postgres"
	c.DBPassword = "postgres"
	c.DBName = "accounts"
	c.DBSSLMode = "disable"

	c.DBMaxOpenConns = 10
	c.DBMaxIdleConns = 5
	c.DBConnMaxLifetime = 30 * time.Minute
	c.DBConnMaxIdleTime = 5 * time.Minute

	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.RefreshTokenValidityDuration = 7 * 24 * time.Hour

	c.RateLimitPerMinute = 100

	c.CORSAllowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}

	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, environment variables, and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
