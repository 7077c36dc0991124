// Package schema validates benchmark run-record input before it reaches the
// detection engine. Malformed input is a hard failure here; the engine
// assumes validated input and does not re-validate.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/llmbench/regression-detector/detector/types"
)

// runRecordsSchema is the JSON schema for a list of benchmark run records
const runRecordsSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {
		"type": "object",
		"required": ["execution_id", "total_executions", "model_stats"],
		"properties": {
			"execution_id": {"type": "string", "minLength": 1},
			"total_executions": {"type": "integer", "minimum": 0},
			"model_stats": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["provider_name", "model_id", "latency_p50_ms", "latency_p95_ms", "latency_p99_ms", "success_rate", "avg_cost_per_request_usd", "total_executions"],
					"properties": {
						"provider_name": {"type": "string", "minLength": 1},
						"model_id": {"type": "string", "minLength": 1},
						"latency_p50_ms": {"type": "number", "minimum": 0},
						"latency_p95_ms": {"type": "number", "minimum": 0},
						"latency_p99_ms": {"type": "number", "minimum": 0},
						"avg_tokens_per_second": {"type": ["number", "null"], "minimum": 0},
						"success_rate": {"type": "number", "minimum": 0, "maximum": 1},
						"avg_cost_per_request_usd": {"type": "number", "minimum": 0},
						"total_executions": {"type": "integer", "minimum": 0}
					}
				}
			}
		}
	}
}`

var compiledSchema *gojsonschema.Schema

func init() {
	var err error
	compiledSchema, err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(runRecordsSchema))
	if err != nil {
		panic(fmt.Sprintf("invalid embedded run records schema: %v", err))
	}
}

// ValidateRunRecords checks raw JSON against the run-record schema and
// returns an error describing every violation
func ValidateRunRecords(data []byte) error {
	result, err := compiledSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to validate run records: %w", err)
	}

	if !result.Valid() {
		var violations []string
		for _, desc := range result.Errors() {
			violations = append(violations, desc.String())
		}
		return fmt.Errorf("invalid run records: %s", strings.Join(violations, "; "))
	}

	return nil
}

// ParseRunRecords validates raw JSON and unmarshals it into run records
func ParseRunRecords(data []byte) ([]types.RunRecord, error) {
	if err := ValidateRunRecords(data); err != nil {
		return nil, err
	}

	var runs []types.RunRecord
	if err := json.Unmarshal(data, &runs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run records: %w", err)
	}

	return runs, nil
}
