package analysis

import (
	"math"

	"github.com/llmbench/regression-detector/detector/config"
	"github.com/llmbench/regression-detector/detector/types"
)

// ConfidenceScorer computes a confidence score for a completed detection.
// The scoring formula is deliberately pluggable; the engine calls it once per
// invocation and treats the result as opaque.
type ConfidenceScorer interface {
	Score(results []types.ModelRegressionResult, baselineExecutions, candidateExecutions int64) types.ConfidenceScore
}

// WeightedScorer is the default scorer: a weighted sum over sample volume,
// p-value strength and agreement between significance and effect size
type WeightedScorer struct {
	statistical config.StatisticalConfig
}

// NewWeightedScorer creates the default confidence scorer
func NewWeightedScorer(statistical config.StatisticalConfig) *WeightedScorer {
	return &WeightedScorer{statistical: statistical}
}

const (
	weightSampleVolume = 0.4
	weightTestStrength = 0.4
	weightEffectAgree  = 0.2

	// fullConfidenceExecutions is the execution volume at which the sample
	// factor saturates
	fullConfidenceExecutions = 100
)

// Score implements ConfidenceScorer
func (s *WeightedScorer) Score(results []types.ModelRegressionResult, baselineExecutions, candidateExecutions int64) types.ConfidenceScore {
	minExecutions := baselineExecutions
	if candidateExecutions < minExecutions {
		minExecutions = candidateExecutions
	}
	sampleValue := math.Min(1, float64(minExecutions)/fullConfidenceExecutions)

	strengthValue := 0.5
	agreeValue := 0.5

	var strengthSum float64
	var agreeCount, metricCount int
	for _, result := range results {
		for _, mr := range result.MetricRegressions {
			metricCount++
			strengthSum += 1 - mr.StatisticalTest.PValue

			largeEffect := math.Abs(mr.StatisticalTest.EffectSize) >= s.statistical.EffectSizeThreshold
			if mr.StatisticalTest.IsSignificant == largeEffect {
				agreeCount++
			}
		}
	}
	if metricCount > 0 {
		strengthValue = strengthSum / float64(metricCount)
		agreeValue = float64(agreeCount) / float64(metricCount)
	}

	factors := []types.ConfidenceFactor{
		{Factor: "sample_volume", Weight: weightSampleVolume, Value: sampleValue},
		{Factor: "test_strength", Weight: weightTestStrength, Value: strengthValue},
		{Factor: "effect_size_agreement", Weight: weightEffectAgree, Value: agreeValue},
	}

	var confidence float64
	for _, f := range factors {
		confidence += f.Weight * f.Value
	}
	confidence = math.Max(0, math.Min(1, confidence))

	return types.ConfidenceScore{
		Confidence: confidence,
		Factors:    factors,
	}
}
