package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv_OverridesDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("STORAGE", "memory")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "7")
	t.Setenv("S3_BUCKET", "images")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, ":9999", c.EndpointAddrHTTP)
	assert.Equal(t, StorageMemory, c.Storage)
	assert.Equal(t, 5*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 2.5, c.RateLimitRPS)
	assert.Equal(t, 7, c.RateLimitBurst)
	assert.Equal(t, "images", c.S3Bucket)
	// untouched
	assert.Equal(t, "secretKey", c.SecretKey)
}

func TestParseEnv_IgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "lots")
	t.Setenv("REFRESH_TOKEN_TTL", "forever")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, 100, c.RateLimitBurst)
	assert.Equal(t, 24*time.Hour, c.RefreshTokenValidityDuration)
}
