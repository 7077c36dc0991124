package analysis

import (
	"math"

	"github.com/llmbench/regression-detector/detector/config"
	"github.com/llmbench/regression-detector/detector/types"
)

const (
	testNameWelch   = "welch_t_test"
	testNameStudent = "student_t_test"

	// unchangedBand is the fractional change below which a metric is
	// considered unchanged regardless of direction
	unchangedBand = 0.01
)

// AnalyzeMetric compares the baseline and candidate sample arrays for one
// metric and produces the full per-metric verdict: descriptive statistics,
// hypothesis test, effect size, direction and severity.
//
// Returns nil when either side has no samples, in which case the metric is
// omitted from the model result entirely.
func AnalyzeMetric(spec config.MetricSpec, baseline, candidate []float64, tier config.ThresholdTier, statCfg config.StatisticalConfig) *types.MetricRegression {
	if len(baseline) == 0 || len(candidate) == 0 {
		return nil
	}

	baselineMean := mean(baseline)
	candidateMean := mean(candidate)
	baselineSD := popStdDev(baseline)
	candidateSD := popStdDev(candidate)
	n1, n2 := len(baseline), len(candidate)

	absoluteChange := candidateMean - baselineMean
	percentageChange := 0.0
	if baselineMean != 0 {
		percentageChange = absoluteChange / baselineMean
	}

	direction := classifyDirection(percentageChange, spec.HigherIsWorse)
	test := runTest(baselineMean, candidateMean, baselineSD, candidateSD, n1, n2, statCfg)

	severity := ClassifySeverity(percentageChange, absoluteChange, tier,
		spec.HigherIsWorse, test.IsSignificant, spec.AbsoluteThresholds)

	return &types.MetricRegression{
		MetricName:           spec.Name,
		BaselineValue:        baselineMean,
		BaselineStdDev:       baselineSD,
		BaselineSampleCount:  n1,
		CandidateValue:       candidateMean,
		CandidateStdDev:      candidateSD,
		CandidateSampleCount: n2,
		AbsoluteChange:       absoluteChange,
		PercentageChange:     percentageChange,
		ChangeDirection:      direction,
		StatisticalTest:      test,
		Severity:             severity,
		IsRegression:         direction == types.DirectionDegraded && test.IsSignificant && severity != types.SeverityNone,
		Unit:                 spec.Unit,
	}
}

// classifyDirection determines which way the metric moved. Changes inside
// the unchanged band are reported as unchanged.
func classifyDirection(percentageChange float64, higherIsWorse bool) types.ChangeDirection {
	if math.Abs(percentageChange) < unchangedBand {
		return types.DirectionUnchanged
	}
	if higherIsWorse {
		if percentageChange > 0 {
			return types.DirectionDegraded
		}
		return types.DirectionImproved
	}
	if percentageChange < 0 {
		return types.DirectionDegraded
	}
	return types.DirectionImproved
}

// runTest performs the configured two-sample hypothesis test and attaches the
// effect size. With fewer than two samples on either side the test cannot
// reject, so the result reports p=1 and no significance.
func runTest(mean1, mean2, sd1, sd2 float64, n1, n2 int, statCfg config.StatisticalConfig) types.StatisticalTestResult {
	testName := testNameWelch
	if !statCfg.Welch() {
		testName = testNameStudent
	}

	effectSize := cohensD(mean1, mean2, sd1, sd2, n1, n2)
	result := types.StatisticalTestResult{
		TestName:                 testName,
		PValue:                   1,
		EffectSize:               effectSize,
		EffectSizeInterpretation: interpretEffectSize(effectSize),
	}

	if n1 < 2 || n2 < 2 {
		return result
	}

	if statCfg.Welch() {
		result.Statistic, result.DegreesOfFreedom, result.PValue = welchTTest(mean1, mean2, sd1, sd2, n1, n2)
	} else {
		result.Statistic, result.DegreesOfFreedom, result.PValue = studentTTest(mean1, mean2, sd1, sd2, n1, n2)
	}

	alpha := 1 - statCfg.ConfidenceLevel
	result.IsSignificant = result.PValue < alpha
	return result
}
