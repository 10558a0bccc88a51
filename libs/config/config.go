// Package config provides configuration for the application
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the application
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Logging   LoggingConfig
	CORS      CORSConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig

	// SecretKey is both the shared Api-Key value and the JWT signing secret
	SecretKey      string `env:"SECRET_KEY, required"`
	MigrationsPath string `env:"MIGRATIONS_PATH, default=file://migrations"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string `env:"MYSQL_HOST, required"`
	Port     int    `env:"MYSQL_PORT, default=3306"`
	User     string `env:"MYSQL_USER, required"`
	Password string `env:"MYSQL_PASSWORD, required"`
	DBName   string `env:"MYSQL_DB, required"`
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port int `env:"SERVER_PORT, default=8080"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string `env:"LOG_LEVEL, default=info"`
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	Origins string `env:"CORS_ALLOWED_ORIGINS, default=*"`
}

// JWTConfig holds JWT token configuration
type JWTConfig struct {
	AccessTokenExpiry  time.Duration `env:"JWT_ACCESS_TOKEN_EXPIRY, default=24h"`
	RefreshTokenExpiry time.Duration `env:"JWT_REFRESH_TOKEN_EXPIRY, default=720h"`
}

// RateLimitConfig holds per-IP request limits
type RateLimitConfig struct {
	RequestsPerMinute int `env:"RATE_LIMIT_PER_MINUTE, default=100"`
}

// Load reads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	return process(ctx, envconfig.OsLookuper())
}

// process fills the config from the given lookuper
func process(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if cfg.JWT.AccessTokenExpiry <= 0 {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_EXPIRY: %s", cfg.JWT.AccessTokenExpiry)
	}
	if cfg.RateLimit.RequestsPerMinute <= 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %d", cfg.RateLimit.RequestsPerMinute)
	}

	return cfg, nil
}

// AllowedOrigins parses the comma-separated CORS origins
func (c *Config) AllowedOrigins() []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(c.CORS.Origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	// If no valid origins found, default to allow all
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}
