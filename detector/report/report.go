// Package report renders detection results for human and machine consumers
// and maps results onto CI exit codes. It is pure formatting over the
// engine's already-computed output.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/llmbench/regression-detector/detector/types"
)

// Format selects an output rendering
type Format string

const (
	FormatJSON  Format = "json"
	FormatTable Format = "table"
	FormatText  Format = "text"
)

// Render produces the requested representation of a detection result
func Render(result *types.DetectionResult, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return RenderJSON(result)
	case FormatTable:
		return []byte(RenderTable(result)), nil
	case FormatText:
		return []byte(RenderText(result)), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

// RenderJSON serializes the full detection result as indented JSON
func RenderJSON(result *types.DetectionResult) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal detection result: %w", err)
	}
	return data, nil
}

// RenderTable produces a markdown-like table of every compared metric,
// preceded by the run-level summary
func RenderTable(result *types.DetectionResult) string {
	var b strings.Builder

	b.WriteString(result.Summary.SummaryText)
	b.WriteString("\n\n")
	b.WriteString("| Model | Metric | Baseline | Candidate | Change | Direction | Severity | p-value |\n")
	b.WriteString("|-------|--------|----------|-----------|--------|-----------|----------|---------|\n")

	for _, model := range result.ModelResults {
		name := model.ProviderName + "/" + model.ModelID
		for _, mr := range model.MetricRegressions {
			fmt.Fprintf(&b, "| %s | %s | %.4g %s | %.4g %s | %+.1f%% | %s | %s | %.4f |\n",
				name, mr.MetricName,
				mr.BaselineValue, mr.Unit,
				mr.CandidateValue, mr.Unit,
				mr.PercentageChange*100,
				mr.ChangeDirection, mr.Severity,
				mr.StatisticalTest.PValue)
		}
	}

	if len(result.Constraints) > 0 {
		b.WriteString("\nConstraints: ")
		b.WriteString(joinConstraints(result.Constraints))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nConfidence: %.2f\n", result.Confidence.Confidence)

	return b.String()
}

// RenderText produces the free-text summary: one line per model plus the
// run-level roll-up
func RenderText(result *types.DetectionResult) string {
	var b strings.Builder

	b.WriteString(result.Summary.SummaryText)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Baseline executions: %d, candidate executions: %d\n",
		result.Summary.TotalBaselineExecutions, result.Summary.TotalCandidateExecutions)

	for _, model := range result.ModelResults {
		b.WriteString("  - ")
		b.WriteString(model.Summary)
		b.WriteString("\n")
	}

	if len(result.Constraints) > 0 {
		fmt.Fprintf(&b, "Constraints: %s\n", joinConstraints(result.Constraints))
	}
	fmt.Fprintf(&b, "Confidence: %.2f\n", result.Confidence.Confidence)

	return b.String()
}

// ExitCode maps a detection result onto a process exit code for CI
// pipelines: 1 when regressions were detected and the worst severity meets
// the failure threshold, 0 otherwise
func ExitCode(result *types.DetectionResult, failOn types.Severity) int {
	if result.Summary.AnyRegressionsDetected && result.Summary.WorstSeverity.AtLeast(failOn) {
		return 1
	}
	return 0
}

func joinConstraints(constraints []types.Constraint) string {
	parts := make([]string, len(constraints))
	for i, c := range constraints {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}
