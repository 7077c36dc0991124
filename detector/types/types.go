package types

import "time"

// Severity classifies the magnitude of a detected regression
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

// severityRanks defines the total ordering none < minor < major < critical
var severityRanks = map[Severity]int{
	SeverityNone:     0,
	SeverityMinor:    1,
	SeverityMajor:    2,
	SeverityCritical: 3,
}

// Rank returns the ordinal position of the severity, 0 for unknown values
func (s Severity) Rank() int {
	return severityRanks[s]
}

// AtLeast reports whether s is equal to or worse than other
func (s Severity) AtLeast(other Severity) bool {
	return s.Rank() >= other.Rank()
}

// MaxSeverity returns the worse of two severities
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// ChangeDirection describes how a metric moved between baseline and candidate
type ChangeDirection string

const (
	DirectionImproved  ChangeDirection = "improved"
	DirectionDegraded  ChangeDirection = "degraded"
	DirectionUnchanged ChangeDirection = "unchanged"
)

// Constraint records an anomalous but non-fatal condition observed during detection
type Constraint string

const (
	ConstraintNoCommonModels     Constraint = "no_common_models"
	ConstraintSingleBaselineRun  Constraint = "single_baseline_run"
	ConstraintSingleCandidateRun Constraint = "single_candidate_run"
	ConstraintLowSampleSize      Constraint = "low_sample_size"
)

// PerModelStats holds the aggregate statistics one benchmark run reported for
// a single (provider, model) target
type PerModelStats struct {
	ProviderName         string   `json:"provider_name"`
	ModelID              string   `json:"model_id"`
	LatencyP50Ms         float64  `json:"latency_p50_ms"`
	LatencyP95Ms         float64  `json:"latency_p95_ms"`
	LatencyP99Ms         float64  `json:"latency_p99_ms"`
	AvgTokensPerSecond   *float64 `json:"avg_tokens_per_second,omitempty"`
	SuccessRate          float64  `json:"success_rate"`
	AvgCostPerRequestUSD float64  `json:"avg_cost_per_request_usd"`
	TotalExecutions      int64    `json:"total_executions"`
}

// RunRecord is the per-run input produced by an external benchmark runner.
// It is immutable by contract; the engine never mutates it.
type RunRecord struct {
	ExecutionID     string          `json:"execution_id"`
	TotalExecutions int64           `json:"total_executions"`
	ModelStats      []PerModelStats `json:"model_stats"`
}

// AggregatedModelStats accumulates parallel per-metric sample arrays for one
// (provider, model) pair across all runs on one side of the comparison.
// Array order equals run-iteration order, which equals input-list order.
type AggregatedModelStats struct {
	ProviderName    string    `json:"provider_name"`
	ModelID         string    `json:"model_id"`
	LatencyP50      []float64 `json:"latency_p50"`
	LatencyP95      []float64 `json:"latency_p95"`
	LatencyP99      []float64 `json:"latency_p99"`
	Throughput      []float64 `json:"throughput"`
	SuccessRates    []float64 `json:"success_rates"`
	Costs           []float64 `json:"costs"`
	ExecutionIDs    []string  `json:"execution_ids"`
	TotalExecutions int64     `json:"total_executions"`
}

// Key returns the canonical "provider:model" aggregation key
func (a *AggregatedModelStats) Key() string {
	return ModelKey(a.ProviderName, a.ModelID)
}

// ModelKey builds the canonical aggregation key for a (provider, model) pair
func ModelKey(provider, model string) string {
	return provider + ":" + model
}

// StatisticalTestResult holds the outcome of a two-sample hypothesis test
// together with the effect size for the same comparison
type StatisticalTestResult struct {
	TestName                 string  `json:"test_name"`
	Statistic                float64 `json:"statistic"`
	PValue                   float64 `json:"p_value"`
	IsSignificant            bool    `json:"is_significant"`
	EffectSize               float64 `json:"effect_size"`
	EffectSizeInterpretation string  `json:"effect_size_interpretation"`
	DegreesOfFreedom         float64 `json:"degrees_of_freedom"`
}

// MetricRegression is the per-metric comparison verdict for one matched model
type MetricRegression struct {
	MetricName           string                `json:"metric_name"`
	BaselineValue        float64               `json:"baseline_value"`
	BaselineStdDev       float64               `json:"baseline_stddev"`
	BaselineSampleCount  int                   `json:"baseline_sample_count"`
	CandidateValue       float64               `json:"candidate_value"`
	CandidateStdDev      float64               `json:"candidate_stddev"`
	CandidateSampleCount int                   `json:"candidate_sample_count"`
	AbsoluteChange       float64               `json:"absolute_change"`
	PercentageChange     float64               `json:"percentage_change"`
	ChangeDirection      ChangeDirection       `json:"change_direction"`
	StatisticalTest      StatisticalTestResult `json:"statistical_test"`
	Severity             Severity              `json:"severity"`
	IsRegression         bool                  `json:"is_regression"`
	Unit                 string                `json:"unit"`
}

// ModelRegressionResult rolls up the metric verdicts for one matched model
type ModelRegressionResult struct {
	ProviderName          string             `json:"provider_name"`
	ModelID               string             `json:"model_id"`
	OverallSeverity       Severity           `json:"overall_severity"`
	HasRegression         bool               `json:"has_regression"`
	RegressionCount       int                `json:"regression_count"`
	MetricRegressions     []MetricRegression `json:"metric_regressions"`
	Summary               string             `json:"summary"`
	BaselineExecutionIDs  []string           `json:"baseline_execution_ids"`
	CandidateExecutionIDs []string           `json:"candidate_execution_ids"`
}

// RegressionSummary is the run-level roll-up, exactly one per invocation
type RegressionSummary struct {
	TotalModelsAnalyzed      int      `json:"total_models_analyzed"`
	ModelsWithRegressions    int      `json:"models_with_regressions"`
	ModelsWithCritical       int      `json:"models_with_critical"`
	ModelsWithMajor          int      `json:"models_with_major"`
	ModelsWithMinor          int      `json:"models_with_minor"`
	WorstSeverity            Severity `json:"worst_severity"`
	TotalBaselineExecutions  int64    `json:"total_baseline_executions"`
	TotalCandidateExecutions int64    `json:"total_candidate_executions"`
	AnyRegressionsDetected   bool     `json:"any_regressions_detected"`
	SummaryText              string   `json:"summary_text"`
}

// ConfidenceFactor is one weighted component of a confidence score
type ConfidenceFactor struct {
	Factor string  `json:"factor"`
	Weight float64 `json:"weight"`
	Value  float64 `json:"value"`
}

// ConfidenceScore is the output of a confidence scorer for one detection
type ConfidenceScore struct {
	Confidence float64            `json:"confidence"`
	Factors    []ConfidenceFactor `json:"factors"`
}

// DetectionResult is the complete engine output for one invocation
type DetectionResult struct {
	Summary      RegressionSummary       `json:"summary"`
	ModelResults []ModelRegressionResult `json:"model_results"`
	Constraints  []Constraint            `json:"constraints"`
	Confidence   ConfidenceScore         `json:"confidence"`
	GeneratedAt  time.Time               `json:"generated_at"`
}

// DecisionRecord is the audit record a caller persists after a detection
type DecisionRecord struct {
	ID            string                  `json:"id"`
	CreatedAt     time.Time               `json:"created_at"`
	InputHash     string                  `json:"input_hash"`
	Confidence    float64                 `json:"confidence"`
	Constraints   []Constraint            `json:"constraints"`
	WorstSeverity Severity                `json:"worst_severity"`
	Summary       RegressionSummary       `json:"summary"`
	ModelResults  []ModelRegressionResult `json:"model_results"`
}
