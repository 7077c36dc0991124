package config

import (
	"fmt"

	"github.com/llmbench/regression-detector/detector/types"
)

// ThresholdTier holds the three severity cutoffs for a single metric.
// Values are fractional change magnitudes, except for metrics whose spec
// marks them as absolute (success_rate).
type ThresholdTier struct {
	Critical float64 `yaml:"critical" json:"critical"`
	Major    float64 `yaml:"major" json:"major"`
	Minor    float64 `yaml:"minor" json:"minor"`
}

// IsZero reports whether no cutoff has been set
func (t ThresholdTier) IsZero() bool {
	return t.Critical == 0 && t.Major == 0 && t.Minor == 0
}

// Thresholds carries one independent threshold tier per metric
type Thresholds struct {
	Latency     ThresholdTier `yaml:"latency" json:"latency"`
	Throughput  ThresholdTier `yaml:"throughput" json:"throughput"`
	SuccessRate ThresholdTier `yaml:"success_rate" json:"success_rate"`
	Cost        ThresholdTier `yaml:"cost" json:"cost"`
}

// StatisticalConfig tunes the hypothesis testing performed per metric
type StatisticalConfig struct {
	ConfidenceLevel     float64 `yaml:"confidence_level" json:"confidence_level"`
	MinSampleSize       int     `yaml:"min_sample_size" json:"min_sample_size"`
	UseWelchTTest       *bool   `yaml:"use_welch_t_test" json:"use_welch_t_test"`
	EffectSizeThreshold float64 `yaml:"effect_size_threshold" json:"effect_size_threshold"`
}

// Welch reports whether Welch's t-test should be used instead of the
// pooled-variance Student's t-test. Defaults to true when unset.
func (s StatisticalConfig) Welch() bool {
	return s.UseWelchTTest == nil || *s.UseWelchTTest
}

// ModelFilter restricts detection to a specific (provider, model) target
type ModelFilter struct {
	ProviderName string `yaml:"provider_name" json:"provider_name"`
	ModelID      string `yaml:"model_id" json:"model_id"`
}

// DetectionConfig is the full configuration for one detection invocation.
// Callers supply partial overrides; ApplyDefaults fills in the rest so the
// engine always works from one complete immutable value.
type DetectionConfig struct {
	Thresholds  Thresholds        `yaml:"thresholds" json:"thresholds"`
	Statistical StatisticalConfig `yaml:"statistical" json:"statistical"`
	Models      []ModelFilter     `yaml:"models,omitempty" json:"models,omitempty"`
	FailOn      types.Severity    `yaml:"fail_on,omitempty" json:"fail_on,omitempty"`
}

// DefaultThresholds returns the stock threshold tiers: relative 50/25/10%
// for latency, throughput and cost, absolute 10/5/2 points for success rate
func DefaultThresholds() Thresholds {
	return Thresholds{
		Latency:     ThresholdTier{Critical: 0.50, Major: 0.25, Minor: 0.10},
		Throughput:  ThresholdTier{Critical: 0.50, Major: 0.25, Minor: 0.10},
		SuccessRate: ThresholdTier{Critical: 0.10, Major: 0.05, Minor: 0.02},
		Cost:        ThresholdTier{Critical: 0.50, Major: 0.25, Minor: 0.10},
	}
}

// DefaultStatisticalConfig returns the stock statistical tuning
func DefaultStatisticalConfig() StatisticalConfig {
	welch := true
	return StatisticalConfig{
		ConfidenceLevel:     0.95,
		MinSampleSize:       5,
		UseWelchTTest:       &welch,
		EffectSizeThreshold: 0.5,
	}
}

// DefaultDetectionConfig returns a complete configuration with all defaults
func DefaultDetectionConfig() DetectionConfig {
	return DetectionConfig{
		Thresholds:  DefaultThresholds(),
		Statistical: DefaultStatisticalConfig(),
		FailOn:      types.SeverityMinor,
	}
}

// ApplyDefaults returns a copy of cfg with unset fields replaced by defaults.
// The receiver is not modified.
func (cfg DetectionConfig) ApplyDefaults() DetectionConfig {
	defaults := DefaultDetectionConfig()

	if cfg.Thresholds.Latency.IsZero() {
		cfg.Thresholds.Latency = defaults.Thresholds.Latency
	}
	if cfg.Thresholds.Throughput.IsZero() {
		cfg.Thresholds.Throughput = defaults.Thresholds.Throughput
	}
	if cfg.Thresholds.SuccessRate.IsZero() {
		cfg.Thresholds.SuccessRate = defaults.Thresholds.SuccessRate
	}
	if cfg.Thresholds.Cost.IsZero() {
		cfg.Thresholds.Cost = defaults.Thresholds.Cost
	}
	if cfg.Statistical.ConfidenceLevel == 0 {
		cfg.Statistical.ConfidenceLevel = defaults.Statistical.ConfidenceLevel
	}
	if cfg.Statistical.MinSampleSize == 0 {
		cfg.Statistical.MinSampleSize = defaults.Statistical.MinSampleSize
	}
	if cfg.Statistical.UseWelchTTest == nil {
		cfg.Statistical.UseWelchTTest = defaults.Statistical.UseWelchTTest
	}
	if cfg.Statistical.EffectSizeThreshold == 0 {
		cfg.Statistical.EffectSizeThreshold = defaults.Statistical.EffectSizeThreshold
	}
	if cfg.FailOn == "" {
		cfg.FailOn = defaults.FailOn
	}

	// Blank filter entries are dropped rather than matching nothing
	filtered := cfg.Models[:0:0]
	for _, m := range cfg.Models {
		if m.ProviderName == "" && m.ModelID == "" {
			continue
		}
		filtered = append(filtered, m)
	}
	cfg.Models = filtered

	return cfg
}

// validateTier checks that a threshold tier is positive and ordered
func validateTier(metric string, t ThresholdTier) error {
	if t.Minor <= 0 || t.Major <= 0 || t.Critical <= 0 {
		return fmt.Errorf("%s thresholds must be greater than 0", metric)
	}
	if t.Minor > t.Major || t.Major > t.Critical {
		return fmt.Errorf("%s thresholds must be ordered minor <= major <= critical", metric)
	}
	return nil
}

// Validate performs fail-fast validation on a complete configuration
func (cfg DetectionConfig) Validate() error {
	if err := validateTier("latency", cfg.Thresholds.Latency); err != nil {
		return err
	}
	if err := validateTier("throughput", cfg.Thresholds.Throughput); err != nil {
		return err
	}
	if err := validateTier("success_rate", cfg.Thresholds.SuccessRate); err != nil {
		return err
	}
	if err := validateTier("cost", cfg.Thresholds.Cost); err != nil {
		return err
	}

	if cfg.Statistical.ConfidenceLevel <= 0 || cfg.Statistical.ConfidenceLevel >= 1 {
		return fmt.Errorf("confidence_level must be between 0 and 1 exclusive")
	}
	if cfg.Statistical.MinSampleSize < 0 {
		return fmt.Errorf("min_sample_size must not be negative")
	}
	if cfg.Statistical.EffectSizeThreshold < 0 {
		return fmt.Errorf("effect_size_threshold must not be negative")
	}

	switch cfg.FailOn {
	case types.SeverityMinor, types.SeverityMajor, types.SeverityCritical:
	default:
		return fmt.Errorf("invalid fail_on severity: %s", cfg.FailOn)
	}

	for _, m := range cfg.Models {
		if m.ProviderName == "" || m.ModelID == "" {
			return fmt.Errorf("model filter entries require both provider_name and model_id")
		}
	}

	return nil
}
