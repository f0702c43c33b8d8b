package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreWorkbook, cfg.StoreDriver)
	assert.Equal(t, CacheMemory, cfg.CacheDriver)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 60*time.Second, cfg.HandshakeTTL)
	assert.Equal(t, "@hourly", cfg.CacheSweepSchedule)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.False(t, cfg.HashPasswords)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/locus")
	t.Setenv("CACHE_DRIVER", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("HANDSHAKE_TTL", "15s")
	t.Setenv("HASH_PASSWORDS", "true")
	t.Setenv("TIMEZONE", "Africa/Cairo")
	t.Setenv("ALLOWED_ORIGINS", "https://contracts.example.com, https://hr.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, "postgres://localhost/locus", cfg.DatabaseURL)
	assert.Equal(t, CacheRedis, cfg.CacheDriver)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 15*time.Second, cfg.HandshakeTTL)
	assert.True(t, cfg.HashPasswords)
	assert.Equal(t, "Africa/Cairo", cfg.Location().String())
	assert.Equal(t, []string{"https://contracts.example.com", "https://hr.example.com"}, cfg.AllowedOrigins)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "postgres without database url",
			env:  map[string]string{"STORE_DRIVER": "postgres"},
		},
		{
			name: "redis without redis url",
			env:  map[string]string{"CACHE_DRIVER": "redis"},
		},
		{
			name: "unknown store driver",
			env:  map[string]string{"STORE_DRIVER": "sheets"},
		},
		{
			name: "non-positive session ttl",
			env:  map[string]string{"SESSION_TTL": "0s"},
		},
		{
			name: "bad timezone",
			env:  map[string]string{"TIMEZONE": "Mars/Olympus"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
