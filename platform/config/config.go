// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// AuthServiceConfig provides settings needed by the auth service.
type AuthServiceConfig interface {
	JWTConfig
	GetAccessTokenTTL() time.Duration
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// RedisConfig provides settings for Redis (processing lock and task queue).
type RedisConfig interface {
	GetRedisURL() string
}

// SchedulerConfig provides settings for the asynq scheduler and worker.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetDailyRefreshInterval() time.Duration
}

// LockConfig provides settings for the batch processing lock.
type LockConfig interface {
	RedisConfig
	GetLockWait() time.Duration
	GetLockTTL() time.Duration
}

// ScheduleConfig provides settings for schedule projection.
type ScheduleConfig interface {
	GetProjectionHorizonDays() int
}

// =============================================================================
// Config Implementation
// =============================================================================

// Config holds all application configuration loaded from the environment.
type Config struct {
	Env      string
	HTTPAddr string

	DatabaseURL string

	JWTAccessSecret string
	AccessTokenTTL  time.Duration

	CORSAllowAll bool
	CORSOrigins  []string

	RedisURL             string
	AsynqQueueName       string
	AsynqConcurrency     int
	DailyRefreshInterval time.Duration

	LockWait time.Duration
	LockTTL  time.Duration

	ProjectionHorizonDays int
}

// Load reads configuration from the environment, honoring a local .env file
// when present (development convenience; real deployments set env vars).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTAccessSecret: os.Getenv("JWT_ACCESS_SECRET"),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),

		CORSAllowAll: getEnvBool("CORS_ALLOW_ALL", false),
		CORSOrigins:  getEnvList("CORS_ORIGINS"),

		RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379/0"),
		AsynqQueueName:       getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:     getEnvInt("ASYNQ_CONCURRENCY", 10),
		DailyRefreshInterval: getEnvDuration("DAILY_REFRESH_INTERVAL", 24*time.Hour),

		LockWait: getEnvDuration("PROCESS_LOCK_WAIT", 5*time.Second),
		LockTTL:  getEnvDuration("PROCESS_LOCK_TTL", 2*time.Minute),

		ProjectionHorizonDays: getEnvInt("PROJECTION_HORIZON_DAYS", 45),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}

	return cfg, nil
}

// Interface implementations.

func (c *Config) GetDatabaseURL() string                { return c.DatabaseURL }
func (c *Config) GetJWTAccessSecret() string            { return c.JWTAccessSecret }
func (c *Config) GetAccessTokenTTL() time.Duration      { return c.AccessTokenTTL }
func (c *Config) GetHTTPAddr() string                   { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool                 { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string              { return c.CORSOrigins }
func (c *Config) GetRedisURL() string                   { return c.RedisURL }
func (c *Config) GetAsynqQueueName() string             { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int              { return c.AsynqConcurrency }
func (c *Config) GetDailyRefreshInterval() time.Duration { return c.DailyRefreshInterval }
func (c *Config) GetLockWait() time.Duration            { return c.LockWait }
func (c *Config) GetLockTTL() time.Duration             { return c.LockTTL }
func (c *Config) GetProjectionHorizonDays() int         { return c.ProjectionHorizonDays }

// =============================================================================
// Env helpers
// =============================================================================

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
