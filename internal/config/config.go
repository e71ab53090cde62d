// Package config provides configuration management for the federation
// backend. It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// StorageBackend selects where the document and its snapshots are persisted.
type StorageBackend string

const (
	BackendRedis    StorageBackend = "redis"
	BackendPostgres StorageBackend = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Auth      AuthConfig
	Assistant AssistantConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	AllowedOrigin   string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// StorageConfig holds document-store configuration.
type StorageConfig struct {
	Backend  StorageBackend
	Redis    RedisConfig
	Postgres PostgresConfig
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Host           string
	Port           string
	Password       string
	DB             int
	MaxConnections int
}

// PostgresConfig holds Postgres connection configuration.
type PostgresConfig struct {
	Host           string
	Port           string
	Database       string
	User           string
	Password       string
	MaxConnections int
	MigrationsPath string
}

// URL builds the connection URL used by the migration runner.
func (c *PostgresConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// AuthConfig holds authentication-strategy configuration. Presence of both
// hosted-identity values selects the hosted strategy at startup; the choice
// is never revisited at runtime.
type AuthConfig struct {
	HostedBaseURL string
	HostedAPIKey  string
}

// Hosted reports whether the hosted identity service is configured.
func (c *AuthConfig) Hosted() bool {
	return c.HostedBaseURL != "" && c.HostedAPIKey != ""
}

// AssistantConfig holds the text-generation collaborator configuration.
type AssistantConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// RateLimitConfig holds API rate-limit configuration.
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from the environment, with .env applied
// first when present.
func LoadConfig() (*Config, error) {
	// Best effort: a missing .env file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnv("SERVER_PORT", "8080"),
			AllowedOrigin:   getEnv("SERVER_ALLOWED_ORIGIN", "*"),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			Backend: StorageBackend(getEnv("STORAGE_BACKEND", string(BackendRedis))),
			Redis: RedisConfig{
				Host:           getEnv("REDIS_HOST", "localhost"),
				Port:           getEnv("REDIS_PORT", "6379"),
				Password:       getEnv("REDIS_PASSWORD", ""),
				DB:             getEnvInt("REDIS_DB", 0),
				MaxConnections: getEnvInt("REDIS_MAX_CONNECTIONS", 10),
			},
			Postgres: PostgresConfig{
				Host:           getEnv("POSTGRES_HOST", "localhost"),
				Port:           getEnv("POSTGRES_PORT", "5432"),
				Database:       getEnv("POSTGRES_DB", "fnpe"),
				User:           getEnv("POSTGRES_USER", "fnpe"),
				Password:       getEnv("POSTGRES_PASSWORD", ""),
				MaxConnections: getEnvInt("POSTGRES_MAX_CONNECTIONS", 10),
				MigrationsPath: getEnv("POSTGRES_MIGRATIONS_PATH", "migrations"),
			},
		},
		Auth: AuthConfig{
			HostedBaseURL: getEnv("AUTH_HOSTED_BASE_URL", ""),
			HostedAPIKey:  getEnv("AUTH_HOSTED_API_KEY", ""),
		},
		Assistant: AssistantConfig{
			BaseURL: getEnv("ASSISTANT_BASE_URL", ""),
			APIKey:  getEnv("ASSISTANT_API_KEY", ""),
			Model:   getEnv("ASSISTANT_MODEL", "gemini-3-flash-preview"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvInt("RATE_LIMIT_RPS", 20),
			Burst:             getEnvInt("RATE_LIMIT_BURST", 40),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND %q (must be %q or %q)",
			c.Storage.Backend, BackendRedis, BackendPostgres)
	}
	if c.Storage.Redis.MaxConnections <= 0 || c.Storage.Postgres.MaxConnections <= 0 {
		return fmt.Errorf("max connections must be positive")
	}
	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
