package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store and cache drivers
const (
	StoreWorkbook = "workbook"
	StorePostgres = "postgres"
	CacheMemory   = "memory"
	CacheRedis    = "redis"
)

type Config struct {
	// Server
	Port           string
	Environment    string
	LogLevel       string
	AllowedOrigins []string

	// Record store
	StoreDriver  string
	DatabaseURL  string
	WorkbookPath string

	// Cache
	CacheDriver        string
	RedisURL           string
	CacheSweepSchedule string

	// Sessions
	SessionTTL    time.Duration
	HandshakeTTL  time.Duration
	HashPasswords bool

	// Identifiers
	Timezone string
	location *time.Location
}

func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:               v.GetString("PORT"),
		Environment:        v.GetString("ENVIRONMENT"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		AllowedOrigins:     splitList(v.GetString("ALLOWED_ORIGINS")),
		StoreDriver:        strings.ToLower(v.GetString("STORE_DRIVER")),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		WorkbookPath:       v.GetString("WORKBOOK_PATH"),
		CacheDriver:        strings.ToLower(v.GetString("CACHE_DRIVER")),
		RedisURL:           v.GetString("REDIS_URL"),
		CacheSweepSchedule: v.GetString("CACHE_SWEEP_SCHEDULE"),
		SessionTTL:         v.GetDuration("SESSION_TTL"),
		HandshakeTTL:       v.GetDuration("HANDSHAKE_TTL"),
		HashPasswords:      v.GetBool("HASH_PASSWORDS"),
		Timezone:           v.GetString("TIMEZONE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("STORE_DRIVER", StoreWorkbook)
	v.SetDefault("WORKBOOK_PATH", "locus.xlsx")
	v.SetDefault("CACHE_DRIVER", CacheMemory)
	v.SetDefault("CACHE_SWEEP_SCHEDULE", "@hourly")
	v.SetDefault("SESSION_TTL", time.Hour)
	v.SetDefault("HANDSHAKE_TTL", 60*time.Second)
	v.SetDefault("HASH_PASSWORDS", false)
	v.SetDefault("TIMEZONE", "UTC")
}

// Validate checks driver-specific requirements and resolves the timezone.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreWorkbook:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.CacheDriver {
	case CacheMemory:
	case CacheRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL environment variable is required for the redis cache")
		}
	default:
		return fmt.Errorf("unknown CACHE_DRIVER %q", c.CacheDriver)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.HandshakeTTL <= 0 {
		return fmt.Errorf("HANDSHAKE_TTL must be positive")
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	c.location = loc

	return nil
}

// Location returns the timezone used to format identifier dates.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
