package analysis

import (
	"math"

	"github.com/llmbench/regression-detector/detector/config"
	"github.com/llmbench/regression-detector/detector/types"
)

// ClassifySeverity maps a measured metric change onto the severity scale.
//
// A change that is not statistically significant, or that moves in the
// non-degrading direction, is always SeverityNone. Otherwise the change
// magnitude (fractional by default, absolute when useAbsolute is set) is
// compared against the tier cutoffs from worst to mildest; the first cutoff
// met wins.
func ClassifySeverity(percentageChange, absoluteChange float64, tier config.ThresholdTier, higherIsWorse, isSignificant, useAbsolute bool) types.Severity {
	if !isSignificant {
		return types.SeverityNone
	}

	isDegradation := percentageChange > 0
	if !higherIsWorse {
		isDegradation = percentageChange < 0
	}
	if !isDegradation {
		return types.SeverityNone
	}

	magnitude := math.Abs(percentageChange)
	if useAbsolute {
		magnitude = math.Abs(absoluteChange)
	}

	switch {
	case magnitude >= tier.Critical:
		return types.SeverityCritical
	case magnitude >= tier.Major:
		return types.SeverityMajor
	case magnitude >= tier.Minor:
		return types.SeverityMinor
	default:
		return types.SeverityNone
	}
}
