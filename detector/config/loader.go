package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadDetectionConfig loads a detection configuration from a YAML file,
// substitutes environment variable references, merges the result over the
// defaults and validates it.
func LoadDetectionConfig(filename string) (DetectionConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return DetectionConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}

	substituted, err := SubstituteEnvVars(string(data))
	if err != nil {
		return DetectionConfig{}, fmt.Errorf("failed to substitute environment variables: %w", err)
	}

	var cfg DetectionConfig
	if err := yaml.Unmarshal([]byte(substituted), &cfg); err != nil {
		return DetectionConfig{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg = cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return DetectionConfig{}, fmt.Errorf("invalid detection configuration: %w", err)
	}

	return cfg, nil
}
