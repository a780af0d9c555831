package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables. A .env file in the
// working directory, if present, is loaded first; variables already set in
// the process environment win over the file.
//
//	HTTP_ADDR, DATABASE_DSN, STORAGE, SECRET_KEY, LOG_LEVEL,
//	ACCESS_TOKEN_TTL, REFRESH_TOKEN_TTL (Go durations, e.g. "15m"),
//	RATE_LIMIT_RPS, RATE_LIMIT_BURST,
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	cfg.EndpointAddrHTTP = envString("HTTP_ADDR", cfg.EndpointAddrHTTP)
	cfg.DatabaseDSN = envString("DATABASE_DSN", cfg.DatabaseDSN)
	cfg.Storage = envString("STORAGE", cfg.Storage)
	cfg.SecretKey = envString("SECRET_KEY", cfg.SecretKey)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.AccessTokenValidityDuration = envDuration("ACCESS_TOKEN_TTL", cfg.AccessTokenValidityDuration)
	cfg.RefreshTokenValidityDuration = envDuration("REFRESH_TOKEN_TTL", cfg.RefreshTokenValidityDuration)
	cfg.RateLimitRPS = envFloat("RATE_LIMIT_RPS", cfg.RateLimitRPS)
	cfg.RateLimitBurst = envInt("RATE_LIMIT_BURST", cfg.RateLimitBurst)
	cfg.S3RootUser = envString("S3_ROOT_USER", cfg.S3RootUser)
	cfg.S3RootPassword = envString("S3_ROOT_PASSWORD", cfg.S3RootPassword)
	cfg.S3Bucket = envString("S3_BUCKET", cfg.S3Bucket)
	cfg.S3Region = envString("S3_REGION", cfg.S3Region)
	cfg.S3BaseEndpoint = envString("S3_BASE_ENDPOINT", cfg.S3BaseEndpoint)
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
