package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRunRecords = `[
	{
		"execution_id": "run-1",
		"total_executions": 100,
		"model_stats": [
			{
				"provider_name": "openai",
				"model_id": "gpt-4",
				"latency_p50_ms": 80.5,
				"latency_p95_ms": 120.0,
				"latency_p99_ms": 200.0,
				"avg_tokens_per_second": 42.0,
				"success_rate": 0.99,
				"avg_cost_per_request_usd": 0.03,
				"total_executions": 50
			}
		]
	}
]`

func TestParseRunRecordsValid(t *testing.T) {
	runs, err := ParseRunRecords([]byte(validRunRecords))
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, "run-1", run.ExecutionID)
	assert.Equal(t, int64(100), run.TotalExecutions)
	require.Len(t, run.ModelStats, 1)

	stats := run.ModelStats[0]
	assert.Equal(t, "openai", stats.ProviderName)
	assert.Equal(t, "gpt-4", stats.ModelID)
	assert.Equal(t, 120.0, stats.LatencyP95Ms)
	require.NotNil(t, stats.AvgTokensPerSecond)
	assert.Equal(t, 42.0, *stats.AvgTokensPerSecond)
}

func TestParseRunRecordsNullThroughput(t *testing.T) {
	input := `[
		{
			"execution_id": "run-1",
			"total_executions": 10,
			"model_stats": [
				{
					"provider_name": "openai",
					"model_id": "gpt-4",
					"latency_p50_ms": 80,
					"latency_p95_ms": 120,
					"latency_p99_ms": 200,
					"avg_tokens_per_second": null,
					"success_rate": 0.99,
					"avg_cost_per_request_usd": 0.03,
					"total_executions": 10
				}
			]
		}
	]`

	runs, err := ParseRunRecords([]byte(input))
	require.NoError(t, err)
	assert.Nil(t, runs[0].ModelStats[0].AvgTokensPerSecond)
}

func TestValidateRunRecordsRejections(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "not an array",
			input: `{"execution_id": "run-1"}`,
		},
		{
			name:  "missing execution_id",
			input: `[{"total_executions": 10, "model_stats": []}]`,
		},
		{
			name:  "empty execution_id",
			input: `[{"execution_id": "", "total_executions": 10, "model_stats": []}]`,
		},
		{
			name:  "negative total_executions",
			input: `[{"execution_id": "run-1", "total_executions": -1, "model_stats": []}]`,
		},
		{
			name: "success_rate above one",
			input: `[{"execution_id": "run-1", "total_executions": 10, "model_stats": [
				{"provider_name": "openai", "model_id": "gpt-4", "latency_p50_ms": 80,
				 "latency_p95_ms": 120, "latency_p99_ms": 200, "success_rate": 1.5,
				 "avg_cost_per_request_usd": 0.03, "total_executions": 10}
			]}]`,
		},
		{
			name: "missing latency percentile",
			input: `[{"execution_id": "run-1", "total_executions": 10, "model_stats": [
				{"provider_name": "openai", "model_id": "gpt-4", "latency_p50_ms": 80,
				 "latency_p99_ms": 200, "success_rate": 0.99,
				 "avg_cost_per_request_usd": 0.03, "total_executions": 10}
			]}]`,
		},
		{
			name: "negative cost",
			input: `[{"execution_id": "run-1", "total_executions": 10, "model_stats": [
				{"provider_name": "openai", "model_id": "gpt-4", "latency_p50_ms": 80,
				 "latency_p95_ms": 120, "latency_p99_ms": 200, "success_rate": 0.99,
				 "avg_cost_per_request_usd": -0.03, "total_executions": 10}
			]}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRunRecords([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid run records")

			_, err = ParseRunRecords([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestValidateRunRecordsEmptyArray(t *testing.T) {
	// An empty list is schema-valid; the engine rejects it separately.
	assert.NoError(t, ValidateRunRecords([]byte(`[]`)))
}

func TestValidateRunRecordsMalformedJSON(t *testing.T) {
	err := ValidateRunRecords([]byte(`[{"execution_id": `))
	assert.Error(t, err)
}
