package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the matching engine demo process.
type Config struct {
	Service ServiceConfig
	Engine  EngineConfig
	Logging LoggingConfig
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name        string
	Environment string
}

// EngineConfig holds the matching engine's own tunables: the outcome count
// of the demo market, and whether virtual-liquidity cross-matching runs on
// every order by default.
type EngineConfig struct {
	Outcomes      int
	CrossMatching bool
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string
	Format string // "json" or "console"
}

// LoadConfig loads configuration from environment variables with defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Service: ServiceConfig{
			Name:        getEnv("SERVICE_NAME", "matching-engine"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Engine: EngineConfig{
			Outcomes:      getEnvInt("ENGINE_OUTCOMES", 3),
			CrossMatching: getEnvBool("ENGINE_CROSS_MATCHING", true),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if cfg.Engine.Outcomes < 2 {
		return nil, fmt.Errorf("ENGINE_OUTCOMES must be at least 2, got %d", cfg.Engine.Outcomes)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
