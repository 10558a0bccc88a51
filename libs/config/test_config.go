package config

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// LoadTestConfig loads the configuration for integration tests from TEST_-prefixed variables
// (TEST_MYSQL_HOST, TEST_SECRET_KEY, ...).
// The second return value is false when no test database is configured, so callers can skip.
func LoadTestConfig(ctx context.Context) (*Config, bool) {
	// Try loading from project root
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()

	if os.Getenv("TEST_MYSQL_HOST") == "" {
		return nil, false
	}

	cfg, err := process(ctx, envconfig.PrefixLookuper("TEST_", envconfig.OsLookuper()))
	if err != nil {
		return nil, false
	}
	return cfg, true
}
