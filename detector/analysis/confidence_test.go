package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmbench/regression-detector/detector/config"
	"github.com/llmbench/regression-detector/detector/types"
)

func resultWithTests(tests ...types.StatisticalTestResult) types.ModelRegressionResult {
	regressions := make([]types.MetricRegression, len(tests))
	for i, tr := range tests {
		regressions[i] = types.MetricRegression{StatisticalTest: tr}
	}
	return types.ModelRegressionResult{MetricRegressions: regressions}
}

func TestWeightedScorerNoMetrics(t *testing.T) {
	scorer := NewWeightedScorer(config.DefaultStatisticalConfig())

	score := scorer.Score(nil, 0, 0)
	require.Len(t, score.Factors, 3)

	// With no metrics the strength and agreement factors sit at the 0.5
	// neutral value and the only signal is the (zero) sample volume.
	assert.InDelta(t, 0.4*0+0.4*0.5+0.2*0.5, score.Confidence, 1e-9)
}

func TestWeightedScorerSampleSaturation(t *testing.T) {
	scorer := NewWeightedScorer(config.DefaultStatisticalConfig())

	low := scorer.Score(nil, 10, 10)
	high := scorer.Score(nil, 500, 500)
	assert.Less(t, low.Confidence, high.Confidence)

	// The sample factor saturates at 100 executions on the smaller side.
	capped := scorer.Score(nil, 100, 1000)
	assert.InDelta(t, high.Confidence, capped.Confidence, 1e-9)
}

func TestWeightedScorerFactors(t *testing.T) {
	scorer := NewWeightedScorer(config.DefaultStatisticalConfig())

	results := []types.ModelRegressionResult{
		resultWithTests(
			// Significant and large effect: agrees.
			types.StatisticalTestResult{PValue: 0.01, EffectSize: 1.2, IsSignificant: true},
			// Significant but small effect: disagrees.
			types.StatisticalTestResult{PValue: 0.02, EffectSize: 0.1, IsSignificant: true},
			// Not significant and small effect: agrees.
			types.StatisticalTestResult{PValue: 0.9, EffectSize: 0.05, IsSignificant: false},
		),
	}

	score := scorer.Score(results, 100, 100)
	require.Len(t, score.Factors, 3)

	byName := make(map[string]types.ConfidenceFactor, len(score.Factors))
	for _, f := range score.Factors {
		byName[f.Factor] = f
	}

	assert.InDelta(t, 1.0, byName["sample_volume"].Value, 1e-9)
	assert.InDelta(t, (0.99+0.98+0.1)/3, byName["test_strength"].Value, 1e-9)
	assert.InDelta(t, 2.0/3, byName["effect_size_agreement"].Value, 1e-9)

	expected := 0.4*1.0 + 0.4*(0.99+0.98+0.1)/3 + 0.2*(2.0/3)
	assert.InDelta(t, expected, score.Confidence, 1e-9)
	assert.GreaterOrEqual(t, score.Confidence, 0.0)
	assert.LessOrEqual(t, score.Confidence, 1.0)
}
