package analysis

import (
	"github.com/llmbench/regression-detector/detector/types"
)

// AggregateRuns folds the run records from one side of the comparison into
// per-model sample sets keyed by "provider:model". Each contributing run
// appends one entry to every metric array, so array order equals input-list
// order and the arrays stay parallel across metrics.
//
// A missing avg_tokens_per_second falls back to 0 here; nothing downstream
// has to deal with optional values.
func AggregateRuns(runs []types.RunRecord) map[string]*types.AggregatedModelStats {
	aggregated := make(map[string]*types.AggregatedModelStats)

	for _, run := range runs {
		for _, stats := range run.ModelStats {
			key := types.ModelKey(stats.ProviderName, stats.ModelID)

			agg, ok := aggregated[key]
			if !ok {
				agg = &types.AggregatedModelStats{
					ProviderName: stats.ProviderName,
					ModelID:      stats.ModelID,
				}
				aggregated[key] = agg
			}

			throughput := 0.0
			if stats.AvgTokensPerSecond != nil {
				throughput = *stats.AvgTokensPerSecond
			}

			agg.LatencyP50 = append(agg.LatencyP50, stats.LatencyP50Ms)
			agg.LatencyP95 = append(agg.LatencyP95, stats.LatencyP95Ms)
			agg.LatencyP99 = append(agg.LatencyP99, stats.LatencyP99Ms)
			agg.Throughput = append(agg.Throughput, throughput)
			agg.SuccessRates = append(agg.SuccessRates, stats.SuccessRate)
			agg.Costs = append(agg.Costs, stats.AvgCostPerRequestUSD)
			agg.ExecutionIDs = append(agg.ExecutionIDs, run.ExecutionID)
			agg.TotalExecutions += stats.TotalExecutions
		}
	}

	return aggregated
}

// TotalRunExecutions sums the run-level execution totals reported by each
// record. This is the source of truth for the run summary totals; the
// per-model totals inside the aggregates can overlap across models and are
// not used for the roll-up.
func TotalRunExecutions(runs []types.RunRecord) int64 {
	var total int64
	for _, run := range runs {
		total += run.TotalExecutions
	}
	return total
}
