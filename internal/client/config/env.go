package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv reads RCLI_SERVER_URL, RCLI_TOKEN_DB and RCLI_TIMEOUT (a Go
// duration). A .env file is loaded first without overriding the process
// environment.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("RCLI_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("RCLI_TOKEN_DB"); v != "" {
		cfg.TokenDBPath = v
	}
	if v := os.Getenv("RCLI_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
}
