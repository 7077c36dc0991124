package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmbench/regression-detector/detector/types"
)

func sampleResult() *types.DetectionResult {
	return &types.DetectionResult{
		Summary: types.RegressionSummary{
			TotalModelsAnalyzed:      1,
			ModelsWithRegressions:    1,
			ModelsWithCritical:       1,
			WorstSeverity:            types.SeverityCritical,
			TotalBaselineExecutions:  100,
			TotalCandidateExecutions: 100,
			AnyRegressionsDetected:   true,
			SummaryText:              "Detected regressions in 1 of 1 model(s). Severity breakdown: 1 critical, 0 major, 0 minor.",
		},
		ModelResults: []types.ModelRegressionResult{
			{
				ProviderName:    "openai",
				ModelID:         "gpt-4",
				OverallSeverity: types.SeverityCritical,
				HasRegression:   true,
				RegressionCount: 1,
				MetricRegressions: []types.MetricRegression{
					{
						MetricName:       "latency",
						BaselineValue:    100,
						CandidateValue:   160,
						AbsoluteChange:   60,
						PercentageChange: 0.60,
						ChangeDirection:  types.DirectionDegraded,
						StatisticalTest: types.StatisticalTestResult{
							TestName:      "welch_t_test",
							PValue:        0.001,
							IsSignificant: true,
						},
						Severity:     types.SeverityCritical,
						IsRegression: true,
						Unit:         "ms",
					},
				},
				Summary: "CRITICAL regression detected for openai/gpt-4: latency (+60.0%)",
			},
		},
		Constraints: []types.Constraint{types.ConstraintLowSampleSize},
		Confidence: types.ConfidenceScore{
			Confidence: 0.82,
			Factors: []types.ConfidenceFactor{
				{Factor: "sample_volume", Weight: 0.4, Value: 1.0},
			},
		},
		GeneratedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRenderJSON(t *testing.T) {
	result := sampleResult()

	data, err := RenderJSON(result)
	require.NoError(t, err)

	var decoded types.DetectionResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, result.Summary, decoded.Summary)
	assert.Equal(t, result.ModelResults, decoded.ModelResults)
	assert.Equal(t, result.Constraints, decoded.Constraints)
}

func TestRenderTable(t *testing.T) {
	output := RenderTable(sampleResult())

	assert.Contains(t, output, "Detected regressions in 1 of 1 model(s).")
	assert.Contains(t, output, "| Model | Metric | Baseline | Candidate | Change | Direction | Severity | p-value |")
	assert.Contains(t, output, "| openai/gpt-4 | latency | 100 ms | 160 ms | +60.0% | degraded | critical | 0.0010 |")
	assert.Contains(t, output, "Constraints: low_sample_size")
	assert.Contains(t, output, "Confidence: 0.82")
}

func TestRenderText(t *testing.T) {
	output := RenderText(sampleResult())

	assert.Contains(t, output, "Detected regressions in 1 of 1 model(s).")
	assert.Contains(t, output, "Baseline executions: 100, candidate executions: 100")
	assert.Contains(t, output, "  - CRITICAL regression detected for openai/gpt-4: latency (+60.0%)")
	assert.Contains(t, output, "Constraints: low_sample_size")
	assert.Contains(t, output, "Confidence: 0.82")
}

func TestRenderDispatch(t *testing.T) {
	result := sampleResult()

	for _, format := range []Format{FormatJSON, FormatTable, FormatText} {
		output, err := Render(result, format)
		require.NoError(t, err)
		assert.NotEmpty(t, output)
	}

	_, err := Render(result, Format("xml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		detected bool
		worst    types.Severity
		failOn   types.Severity
		expected int
	}{
		{"no regressions", false, types.SeverityNone, types.SeverityMinor, 0},
		{"minor at minor threshold", true, types.SeverityMinor, types.SeverityMinor, 1},
		{"minor below major threshold", true, types.SeverityMinor, types.SeverityMajor, 0},
		{"major at major threshold", true, types.SeverityMajor, types.SeverityMajor, 1},
		{"critical above minor threshold", true, types.SeverityCritical, types.SeverityMinor, 1},
		{"major below critical threshold", true, types.SeverityMajor, types.SeverityCritical, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &types.DetectionResult{
				Summary: types.RegressionSummary{
					AnyRegressionsDetected: tt.detected,
					WorstSeverity:          tt.worst,
				},
			}
			assert.Equal(t, tt.expected, ExitCode(result, tt.failOn))
		})
	}
}
