package analysis

import (
	"sort"

	"github.com/llmbench/regression-detector/detector/config"
	"github.com/llmbench/regression-detector/detector/types"
)

// MatchedModel pairs the baseline and candidate aggregates for one model
// present on both sides of the comparison
type MatchedModel struct {
	Key       string
	Baseline  *types.AggregatedModelStats
	Candidate *types.AggregatedModelStats
}

// MatchModels intersects the baseline and candidate key sets and returns the
// ordered list of models to analyze. Keys are sorted so the result is
// deterministic across invocations. A non-empty filter restricts the match
// to the listed (provider, model) pairs; blank filter entries are ignored.
//
// An empty result is valid output, not an error; the caller records the
// no-common-models constraint.
func MatchModels(baseline, candidate map[string]*types.AggregatedModelStats, filter []config.ModelFilter) []MatchedModel {
	allowed := make(map[string]bool, len(filter))
	for _, f := range filter {
		if f.ProviderName == "" && f.ModelID == "" {
			continue
		}
		allowed[types.ModelKey(f.ProviderName, f.ModelID)] = true
	}

	keys := make([]string, 0, len(baseline))
	for key := range baseline {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var matched []MatchedModel
	for _, key := range keys {
		cand, ok := candidate[key]
		if !ok {
			continue
		}
		if len(allowed) > 0 && !allowed[key] {
			continue
		}
		matched = append(matched, MatchedModel{
			Key:       key,
			Baseline:  baseline[key],
			Candidate: cand,
		})
	}

	return matched
}
