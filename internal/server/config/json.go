package config

import (
	"encoding/json"
	"os"

	"github.com/inventario-saas/accounts/internal/flagx"
	"github.com/inventario-saas/accounts/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON
// configuration files. Duration fields accept both strings such as "15m"
// and integer nanoseconds. After unmarshalling, its fields are copied into
// the runtime Config.
type JsonConfig struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	APIPrefix string `json:"api_prefix"`

	DBHost     string `json:"db_host"`
	DBPort     int    `json:"db_port"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBName     string `json:"db_name"`
	DBSSLMode  string `json:"db_sslmode"`

	DBMaxOpenConns    int            `json:"db_max_open_conns"`
	DBMaxIdleConns    int            `json:"db_max_idle_conns"`
	DBConnMaxLifetime timex.Duration `json:"db_conn_max_lifetime"`
	DBConnMaxIdleTime timex.Duration `json:"db_conn_max_idle_time"`

	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`

	RateLimitPerMinute int `json:"rate_limit_per_minute"`

	CORSAllowedOrigins []string `json:"cors_allowed_origins"`

	LogLevel string `json:"log_level"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. If no file is named, nothing
// is loaded. A file that cannot be read or parsed is a startup error and
// panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}

	if c.Host != "" {
		config.Host = c.Host
	}
	if c.Port != 0 {
		config.Port = c.Port
	}
	if c.APIPrefix != "" {
		config.APIPrefix = c.APIPrefix
	}
	if c.DBHost != "" {
		config.DBHost = c.DBHost
	}
	if c.DBPort != 0 {
		config.DBPort = c.DBPort
	}
	if c.DBUser != "" {
		config.DBUser = c.DBUser
	}
	if c.DBPassword != "" {
		config.DBPassword = c.DBPassword
	}
	if c.DBName != "" {
		config.DBName = c.DBName
	}
	if c.DBSSLMode != "" {
		config.DBSSLMode = c.DBSSLMode
	}
	if c.DBMaxOpenConns != 0 {
		config.DBMaxOpenConns = c.DBMaxOpenConns
	}
	if c.DBMaxIdleConns != 0 {
		config.DBMaxIdleConns = c.DBMaxIdleConns
	}
	if c.DBConnMaxLifetime.Duration != 0 {
		config.DBConnMaxLifetime = c.DBConnMaxLifetime.Duration
	}
	if c.DBConnMaxIdleTime.Duration != 0 {
		config.DBConnMaxIdleTime = c.DBConnMaxIdleTime.Duration
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.RateLimitPerMinute != 0 {
		config.RateLimitPerMinute = c.RateLimitPerMinute
	}
	if c.CORSAllowedOrigins != nil {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}
