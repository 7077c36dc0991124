package config

const (
	MetricLatency     = "latency"
	MetricThroughput  = "throughput"
	MetricSuccessRate = "success_rate"
	MetricCost        = "cost"
)

// MetricSpec describes the comparison policy for one metric: which direction
// counts as a degradation, whether thresholds are absolute magnitudes or
// fractional change, and the display unit.
type MetricSpec struct {
	Name               string `json:"name"`
	Unit               string `json:"unit"`
	HigherIsWorse      bool   `json:"higher_is_worse"`
	AbsoluteThresholds bool   `json:"absolute_thresholds"`
}

// metricSpecs is the fixed evaluation policy for the four compared metrics.
// Latency and cost degrade upward with relative thresholds; throughput
// degrades downward with relative thresholds; success rate degrades downward
// with absolute thresholds so a 0.10 drop is critical regardless of baseline.
var metricSpecs = []MetricSpec{
	{Name: MetricLatency, Unit: "ms", HigherIsWorse: true},
	{Name: MetricThroughput, Unit: "tokens/s", HigherIsWorse: false},
	{Name: MetricSuccessRate, Unit: "ratio", HigherIsWorse: false, AbsoluteThresholds: true},
	{Name: MetricCost, Unit: "USD/request", HigherIsWorse: true},
}

// MetricSpecs returns the ordered metric evaluation table
func MetricSpecs() []MetricSpec {
	specs := make([]MetricSpec, len(metricSpecs))
	copy(specs, metricSpecs)
	return specs
}

// ForMetric returns the threshold tier configured for the named metric
func (t Thresholds) ForMetric(name string) ThresholdTier {
	switch name {
	case MetricThroughput:
		return t.Throughput
	case MetricSuccessRate:
		return t.SuccessRate
	case MetricCost:
		return t.Cost
	default:
		return t.Latency
	}
}
