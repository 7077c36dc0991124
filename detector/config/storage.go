package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StorageConfig holds configuration for the decision record store
type StorageConfig struct {
	Enabled    bool             `yaml:"enabled"`
	PostgreSQL PostgreSQLConfig `yaml:"postgresql"`
}

// PostgreSQLConfig contains database connection settings
type PostgreSQLConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Database     string `yaml:"database"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	SSLMode      string `yaml:"ssl_mode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// DefaultStorageConfig returns a default storage configuration
func DefaultStorageConfig() *StorageConfig {
	return &StorageConfig{
		Enabled: false,
		PostgreSQL: PostgreSQLConfig{
			Host:         "localhost",
			Port:         5432,
			Database:     "llm_benchmarks",
			User:         "postgres",
			Password:     "",
			SSLMode:      "disable",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
	}
}

// ConnectionString builds a lib/pq connection string
func (c *PostgreSQLConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// LoadStorageConfig loads storage configuration from a YAML file, applying
// defaults for anything left unset
func LoadStorageConfig(filename string) (*StorageConfig, error) {
	cfg := DefaultStorageConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage config file: %w", err)
	}

	substituted, err := SubstituteEnvVars(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to substitute environment variables: %w", err)
	}

	if err := yaml.Unmarshal([]byte(substituted), cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal storage config: %w", err)
	}

	if cfg.Enabled {
		if cfg.PostgreSQL.Host == "" {
			return nil, fmt.Errorf("postgresql host is required when storage is enabled")
		}
		if cfg.PostgreSQL.Database == "" {
			return nil, fmt.Errorf("postgresql database is required when storage is enabled")
		}
	}

	return cfg, nil
}
