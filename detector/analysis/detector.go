package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llmbench/regression-detector/detector/config"
	"github.com/llmbench/regression-detector/detector/types"
)

// Detector is the regression-detection engine. It is purely CPU-bound
// arithmetic over in-memory arrays, owns all of its intermediate state and
// shares nothing across invocations, so one instance can serve concurrent
// callers without coordination.
type Detector struct {
	cfg    config.DetectionConfig
	scorer ConfidenceScorer
	log    logrus.FieldLogger
}

// NewDetector creates a detector from the given configuration. Unset config
// fields are filled with defaults. A nil scorer selects the default weighted
// scorer.
func NewDetector(cfg config.DetectionConfig, scorer ConfidenceScorer, log logrus.FieldLogger) *Detector {
	cfg = cfg.ApplyDefaults()
	if scorer == nil {
		scorer = NewWeightedScorer(cfg.Statistical)
	}
	return &Detector{
		cfg:    cfg,
		scorer: scorer,
		log:    log.WithField("component", "regression-detector"),
	}
}

// Detect compares the candidate runs against the baseline runs and produces
// the full detection result: per-model metric verdicts, the run-level
// summary, soft constraints and a confidence score.
//
// Both sides must contain at least one run; anything beyond that is a soft
// constraint, never a failure. Zero matched models still yields a valid
// empty summary.
func (d *Detector) Detect(baselineRuns, candidateRuns []types.RunRecord) (*types.DetectionResult, error) {
	if len(baselineRuns) == 0 {
		return nil, fmt.Errorf("at least one baseline run is required")
	}
	if len(candidateRuns) == 0 {
		return nil, fmt.Errorf("at least one candidate run is required")
	}

	var constraints []types.Constraint
	if len(baselineRuns) == 1 {
		constraints = append(constraints, types.ConstraintSingleBaselineRun)
	}
	if len(candidateRuns) == 1 {
		constraints = append(constraints, types.ConstraintSingleCandidateRun)
	}

	baseline := AggregateRuns(baselineRuns)
	candidate := AggregateRuns(candidateRuns)
	matched := MatchModels(baseline, candidate, d.cfg.Models)

	if len(matched) == 0 {
		constraints = append(constraints, types.ConstraintNoCommonModels)
		d.log.WithFields(logrus.Fields{
			"baseline_models":  len(baseline),
			"candidate_models": len(candidate),
		}).Warn("No common models between baseline and candidate")
	}

	results := make([]types.ModelRegressionResult, 0, len(matched))
	lowSample := false
	for _, m := range matched {
		result, low := d.analyzeModel(m)
		results = append(results, result)
		lowSample = lowSample || low
	}
	if lowSample {
		constraints = append(constraints, types.ConstraintLowSampleSize)
	}

	totalBaseline := TotalRunExecutions(baselineRuns)
	totalCandidate := TotalRunExecutions(candidateRuns)

	summary := buildSummary(results, totalBaseline, totalCandidate)
	confidence := d.scorer.Score(results, totalBaseline, totalCandidate)

	d.log.WithFields(logrus.Fields{
		"models_analyzed":  summary.TotalModelsAnalyzed,
		"with_regressions": summary.ModelsWithRegressions,
		"worst_severity":   summary.WorstSeverity,
		"confidence":       confidence.Confidence,
	}).Info("Regression detection completed")

	return &types.DetectionResult{
		Summary:      summary,
		ModelResults: results,
		Constraints:  constraints,
		Confidence:   confidence,
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

// analyzeModel runs the metric analyzer over the configured metric set for
// one matched model and folds the verdicts into a model-level result. The
// second return value reports whether any compared metric had fewer samples
// than the advisory minimum.
func (d *Detector) analyzeModel(m MatchedModel) (types.ModelRegressionResult, bool) {
	var regressions []types.MetricRegression
	overall := types.SeverityNone
	regressionCount := 0
	lowSample := false

	for _, spec := range config.MetricSpecs() {
		baselineValues := metricValues(spec.Name, m.Baseline)
		candidateValues := metricValues(spec.Name, m.Candidate)

		mr := AnalyzeMetric(spec, baselineValues, candidateValues,
			d.cfg.Thresholds.ForMetric(spec.Name), d.cfg.Statistical)
		if mr == nil {
			continue
		}

		if mr.BaselineSampleCount < d.cfg.Statistical.MinSampleSize ||
			mr.CandidateSampleCount < d.cfg.Statistical.MinSampleSize {
			lowSample = true
		}

		overall = types.MaxSeverity(overall, mr.Severity)
		if mr.IsRegression {
			regressionCount++
		}
		regressions = append(regressions, *mr)
	}

	result := types.ModelRegressionResult{
		ProviderName:          m.Baseline.ProviderName,
		ModelID:               m.Baseline.ModelID,
		OverallSeverity:       overall,
		HasRegression:         regressionCount > 0,
		RegressionCount:       regressionCount,
		MetricRegressions:     regressions,
		Summary:               modelSummary(m.Baseline.ProviderName, m.Baseline.ModelID, overall, regressions),
		BaselineExecutionIDs:  m.Baseline.ExecutionIDs,
		CandidateExecutionIDs: m.Candidate.ExecutionIDs,
	}
	return result, lowSample
}

// metricValues selects the sample array feeding the named metric. The p95
// array is the headline latency series; p50 and p99 are carried in the
// aggregates for presentation and auditing.
func metricValues(name string, agg *types.AggregatedModelStats) []float64 {
	switch name {
	case config.MetricThroughput:
		return agg.Throughput
	case config.MetricSuccessRate:
		return agg.SuccessRates
	case config.MetricCost:
		return agg.Costs
	default:
		return agg.LatencyP95
	}
}

// modelSummary builds the human-readable per-model verdict line
func modelSummary(provider, model string, overall types.Severity, regressions []types.MetricRegression) string {
	var parts []string
	for _, mr := range regressions {
		if mr.IsRegression {
			parts = append(parts, fmt.Sprintf("%s (%+.1f%%)", mr.MetricName, mr.PercentageChange*100))
		}
	}

	if len(parts) == 0 {
		return fmt.Sprintf("No statistically significant regressions detected for %s/%s.", provider, model)
	}
	return fmt.Sprintf("%s regression detected for %s/%s: %s",
		strings.ToUpper(string(overall)), provider, model, strings.Join(parts, ", "))
}

// buildSummary folds all model results into the run-level summary. The worst
// severity is taken over the union of every metric regression, so it is
// always at least as high as the highest per-model severity.
func buildSummary(results []types.ModelRegressionResult, totalBaseline, totalCandidate int64) types.RegressionSummary {
	summary := types.RegressionSummary{
		TotalModelsAnalyzed:      len(results),
		WorstSeverity:            types.SeverityNone,
		TotalBaselineExecutions:  totalBaseline,
		TotalCandidateExecutions: totalCandidate,
	}

	for _, result := range results {
		if result.HasRegression {
			summary.ModelsWithRegressions++
			summary.AnyRegressionsDetected = true
		}
		switch result.OverallSeverity {
		case types.SeverityCritical:
			summary.ModelsWithCritical++
		case types.SeverityMajor:
			summary.ModelsWithMajor++
		case types.SeverityMinor:
			summary.ModelsWithMinor++
		}
		for _, mr := range result.MetricRegressions {
			summary.WorstSeverity = types.MaxSeverity(summary.WorstSeverity, mr.Severity)
		}
	}

	if summary.ModelsWithRegressions == 0 {
		summary.SummaryText = fmt.Sprintf("No regressions detected across %d model(s).", summary.TotalModelsAnalyzed)
	} else {
		summary.SummaryText = fmt.Sprintf(
			"Detected regressions in %d of %d model(s). Severity breakdown: %d critical, %d major, %d minor.",
			summary.ModelsWithRegressions, summary.TotalModelsAnalyzed,
			summary.ModelsWithCritical, summary.ModelsWithMajor, summary.ModelsWithMinor)
	}

	return summary
}
