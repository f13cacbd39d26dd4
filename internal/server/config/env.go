package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// parseEnv overlays environment variables onto the Config. Unset or
// malformed values leave the current value in place.
//
// Recognized variables:
//
//	SERVER_HOST, SERVER_PORT, API_PREFIX
//	DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME, DB_SSLMODE
//	DB_MAX_OPEN_CONNS, DB_MAX_IDLE_CONNS, DB_CONN_MAX_LIFETIME, DB_CONN_MAX_IDLE_TIME
//	JWT_SECRET, ACCESS_TOKEN_EXPIRE_MINUTES, REFRESH_TOKEN_EXPIRE_DAYS
//	RATE_LIMIT_PER_MINUTE, CORS_ALLOWED_ORIGINS (comma-separated), LOG_LEVEL
func parseEnv(config *Config) {
	setString(&config.Host, "SERVER_HOST")
	setInt(&config.Port, "SERVER_PORT")
	setString(&config.APIPrefix, "API_PREFIX")

	setString(&config.DBHost, "DB_HOST")
	setInt(&config.DBPort, "DB_PORT")
	setString(&config.DBUser, "DB_USER")
	setString(&config.DBPassword, "DB_PASSWORD")
	setString(&config.DBName, "DB_NAME")
	setString(&config.DBSSLMode, "DB_SSLMODE")

	setInt(&config.DBMaxOpenConns, "DB_MAX_OPEN_CONNS")
	setInt(&config.DBMaxIdleConns, "DB_MAX_IDLE_CONNS")
	setDuration(&config.DBConnMaxLifetime, "DB_CONN_MAX_LIFETIME")
	setDuration(&config.DBConnMaxIdleTime, "DB_CONN_MAX_IDLE_TIME")

	setString(&config.SecretKey, "JWT_SECRET")

	if v, ok := lookupInt("ACCESS_TOKEN_EXPIRE_MINUTES"); ok {
		config.AccessTokenValidityDuration = time.Duration(v) * time.Minute
	}
	if v, ok := lookupInt("REFRESH_TOKEN_EXPIRE_DAYS"); ok {
		config.RefreshTokenValidityDuration = time.Duration(v) * 24 * time.Hour
	}

	setInt(&config.RateLimitPerMinute, "RATE_LIMIT_PER_MINUTE")

	if v, ok := os.LookupEnv("CORS_ALLOWED_ORIGINS"); ok {
		config.CORSAllowedOrigins = splitList(v)
	}

	setString(&config.LogLevel, "LOG_LEVEL")
}

// splitList parses a comma-separated value, trimming whitespace and
// dropping empty entries. "a, b," yields ["a" "b"]; "" yields nil.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := lookupInt(key); ok {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func lookupInt(key string) (int, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
