// Package config holds the CLI client settings: defaults, environment
// (with an optional .env file), a JSON overlay and command-line flags.
package config

import "time"

// Config holds runtime settings for the recipe CLI.
//
// Fields:
//   - ServerURL: base URL of the recipe API, e.g. "http://127.0.0.1:8000".
//   - TokenDBPath: sqlite file where the token pair survives restarts.
//   - RequestTimeout: per-request HTTP timeout.
type Config struct {
	ServerURL      string
	TokenDBPath    string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.TokenDBPath = "rcli.db"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
