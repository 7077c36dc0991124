package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// mean returns the arithmetic mean, 0 for an empty slice
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// popStdDev returns the population standard deviation (divide by N),
// 0 when there are fewer than two samples
func popStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.PopStdDev(values, nil)
}

// welchTTest performs Welch's two-sample t-test, which does not assume equal
// variances. It returns the t statistic, the Welch-Satterthwaite degrees of
// freedom and the two-sided p-value from Student's t distribution.
//
// When both sides have zero variance the test degenerates: equal means give
// p=1, differing means are treated as maximally significant (p=0). Callers
// must ensure n1 >= 2 and n2 >= 2.
func welchTTest(mean1, mean2, sd1, sd2 float64, n1, n2 int) (statistic, df, pValue float64) {
	fn1, fn2 := float64(n1), float64(n2)
	v1, v2 := sd1*sd1/fn1, sd2*sd2/fn2

	se2 := v1 + v2
	if se2 == 0 {
		df = fn1 + fn2 - 2
		if mean1 == mean2 {
			return 0, df, 1
		}
		return 0, df, 0
	}

	statistic = (mean1 - mean2) / math.Sqrt(se2)
	df = se2 * se2 / (v1*v1/(fn1-1) + v2*v2/(fn2-1))
	pValue = twoSidedP(statistic, df)
	return statistic, df, pValue
}

// studentTTest performs the classic pooled-variance two-sample t-test with
// n1+n2-2 degrees of freedom. Same degenerate-variance handling as
// welchTTest; callers must ensure n1 >= 2 and n2 >= 2.
func studentTTest(mean1, mean2, sd1, sd2 float64, n1, n2 int) (statistic, df, pValue float64) {
	fn1, fn2 := float64(n1), float64(n2)
	df = fn1 + fn2 - 2

	pooledVar := ((fn1-1)*sd1*sd1 + (fn2-1)*sd2*sd2) / df
	se := math.Sqrt(pooledVar * (1/fn1 + 1/fn2))
	if se == 0 {
		if mean1 == mean2 {
			return 0, df, 1
		}
		return 0, df, 0
	}

	statistic = (mean1 - mean2) / se
	pValue = twoSidedP(statistic, df)
	return statistic, df, pValue
}

// twoSidedP computes the two-sided p-value for a t statistic with the given
// degrees of freedom
func twoSidedP(t, df float64) float64 {
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.CDF(-math.Abs(t))
	if p > 1 {
		p = 1
	}
	return p
}

// cohensD computes the standardized effect size (candidate - baseline) over
// the pooled standard deviation. With n1+n2 <= 2 the pooled estimate is
// undefined, so the plain average of the two deviations is used instead.
// A zero pooled deviation yields 0 rather than a division by zero.
func cohensD(baselineMean, candidateMean, sd1, sd2 float64, n1, n2 int) float64 {
	fn1, fn2 := float64(n1), float64(n2)

	var pooled float64
	if n1+n2 > 2 {
		pooled = math.Sqrt(((fn1-1)*sd1*sd1 + (fn2-1)*sd2*sd2) / (fn1 + fn2 - 2))
	} else {
		pooled = (sd1 + sd2) / 2
	}

	if pooled == 0 {
		return 0
	}
	return (candidateMean - baselineMean) / pooled
}

// interpretEffectSize maps |d| onto the conventional Cohen bands
func interpretEffectSize(d float64) string {
	abs := math.Abs(d)
	switch {
	case abs < 0.2:
		return "negligible"
	case abs < 0.5:
		return "small"
	case abs < 0.8:
		return "medium"
	default:
		return "large"
	}
}
