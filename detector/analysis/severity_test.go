package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/llmbench/regression-detector/detector/config"
	"github.com/llmbench/regression-detector/detector/types"
)

func TestClassifySeverity(t *testing.T) {
	tier := config.ThresholdTier{Critical: 0.50, Major: 0.25, Minor: 0.10}

	testCases := []struct {
		name             string
		percentageChange float64
		higherIsWorse    bool
		isSignificant    bool
		expected         types.Severity
	}{
		{"not significant", 0.80, true, false, types.SeverityNone},
		{"improvement higher is worse", -0.60, true, true, types.SeverityNone},
		{"improvement lower is worse", 0.60, false, true, types.SeverityNone},
		{"below minor", 0.05, true, true, types.SeverityNone},
		{"minor at boundary", 0.10, true, true, types.SeverityMinor},
		{"major", 0.30, true, true, types.SeverityMajor},
		{"critical", 0.75, true, true, types.SeverityCritical},
		{"degrading drop lower is worse", -0.30, false, true, types.SeverityMajor},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			severity := ClassifySeverity(tc.percentageChange, 0, tier, tc.higherIsWorse, tc.isSignificant, false)
			assert.Equal(t, tc.expected, severity)
		})
	}
}

func TestClassifySeverityAbsoluteThresholds(t *testing.T) {
	// Success-rate policy: absolute drop magnitudes, lower is worse
	tier := config.ThresholdTier{Critical: 0.10, Major: 0.05, Minor: 0.02}

	testCases := []struct {
		absoluteChange   float64
		percentageChange float64
		expected         types.Severity
	}{
		{-0.01, -0.0102, types.SeverityNone},
		{-0.02, -0.0204, types.SeverityMinor},
		{-0.06, -0.0612, types.SeverityMajor},
		{-0.12, -0.1224, types.SeverityCritical},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("drop_%.2f", -tc.absoluteChange), func(t *testing.T) {
			severity := ClassifySeverity(tc.percentageChange, tc.absoluteChange, tier, false, true, true)
			assert.Equal(t, tc.expected, severity)
		})
	}
}

func TestClassifySeverityMonotonicInMagnitude(t *testing.T) {
	// Holding significance and direction fixed, a larger change never
	// produces a lower severity
	tier := config.DefaultThresholds().Latency

	previous := types.SeverityNone
	for pct := 0.01; pct <= 1.0; pct += 0.01 {
		severity := ClassifySeverity(pct, 0, tier, true, true, false)
		assert.GreaterOrEqual(t, severity.Rank(), previous.Rank(), "pct=%v", pct)
		previous = severity
	}
}

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, types.SeverityCritical.Rank() > types.SeverityMajor.Rank())
	assert.True(t, types.SeverityMajor.Rank() > types.SeverityMinor.Rank())
	assert.True(t, types.SeverityMinor.Rank() > types.SeverityNone.Rank())

	assert.Equal(t, types.SeverityMajor, types.MaxSeverity(types.SeverityMinor, types.SeverityMajor))
	assert.Equal(t, types.SeverityMajor, types.MaxSeverity(types.SeverityMajor, types.SeverityNone))
	assert.True(t, types.SeverityCritical.AtLeast(types.SeverityMinor))
	assert.False(t, types.SeverityNone.AtLeast(types.SeverityMinor))
}
