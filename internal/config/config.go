package config

import (
	"os"
	"strconv"

	"promolens/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Data   DataConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DataConfig holds data loading and reporting settings
type DataConfig struct {
	// Dir is the directory holding influencers.csv, posts.csv,
	// tracking.csv and payouts.csv.
	Dir string
	// DefaultTopN is the table size used when a request does not ask
	// for one. Requests are clamped to [MinTopN, MaxTopN].
	DefaultTopN int
	MinTopN     int
	MaxTopN     int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Data: DataConfig{
			Dir:         getEnvOrDefault("DATA_DIR", "data"),
			DefaultTopN: getEnvIntOrDefault("TOP_N_DEFAULT", 10),
			MinTopN:     5,
			MaxTopN:     20,
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(c *Config) error {
	if c.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
	}
	if c.Data.Dir == "" {
		return errors.ConfigInvalid("DATA_DIR must not be empty")
	}
	if c.Data.DefaultTopN < c.Data.MinTopN || c.Data.DefaultTopN > c.Data.MaxTopN {
		return errors.ConfigInvalid("TOP_N_DEFAULT must be between 5 and 20")
	}
	return nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvIntOrDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
