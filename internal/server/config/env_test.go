package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseEnv(t *testing.T) {
	t.Setenv("PRESSROOM_HTTP_ADDR", ":7070")
	t.Setenv("PRESSROOM_ACCESS_TOKEN_TTL", "5m")
	t.Setenv("PRESSROOM_BCRYPT_COST", "11")
	t.Setenv("PRESSROOM_CACHE_BACKEND", "badger")
	t.Setenv("PRESSROOM_CACHE_TTL", "30m")
	t.Setenv("PRESSROOM_MIGRATE_ON_START", "false")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddrHTTP)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 11, cfg.BcryptCost)
	assert.Equal(t, CacheBackendBadger, cfg.CacheBackend)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.MigrateOnStart)

	assert.Equal(t, ":50051", cfg.EndpointAddrGRPC)
	assert.Equal(t, "data/cache", cfg.CacheDir)
}
