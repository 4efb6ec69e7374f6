package report

import (
	"math"
	"sort"

	"raptorcli/internal/errors"
	"raptorcli/pkg/contracts/domain"
)

// zCritical95 is the two-sided normal critical value for a 95% confidence
// interval.
const zCritical95 = 1.96

// calculateMean computes the arithmetic mean, skipping NaN and Inf values.
func calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	validCount := 0
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			sum += v
			validCount++
		}
	}

	if validCount == 0 {
		return 0
	}
	return sum / float64(validCount)
}

// calculateStdDev computes the sample standard deviation (n-1 denominator)
// given a precomputed mean, skipping NaN and Inf values.
func calculateStdDev(values []float64, mean float64) float64 {
	if len(values) <= 1 {
		return 0
	}

	sumSquaredDiff := 0.0
	validCount := 0
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			diff := v - mean
			sumSquaredDiff += diff * diff
			validCount++
		}
	}

	if validCount <= 1 {
		return 0
	}
	return math.Sqrt(sumSquaredDiff / float64(validCount-1))
}

// percentileValue calculates the value at a given percentile of a sorted
// slice using linear interpolation between adjacent ranks.
func percentileValue(sorted []float64, percentile float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}

	if percentile <= 0 {
		return sorted[0]
	}
	if percentile >= 1 {
		return sorted[n-1]
	}

	index := percentile * float64(n-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// describeTiming computes the distribution block of a timing summary row:
// sample size, mean, sample SD, standard error, 95% CI and the five-number
// summary. The caller fills in the group key. An empty sample is an error
// rather than a row of zeros.
func describeTiming(values []float64) (domain.FiscalTimingSummary, error) {
	if len(values) == 0 {
		return domain.FiscalTimingSummary{}, errors.NewValidationError("cannot summarize an empty sample")
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	mean := calculateMean(sorted)
	sd := calculateStdDev(sorted, mean)
	se := sd / math.Sqrt(float64(n))

	return domain.FiscalTimingSummary{
		N:      n,
		Mean:   mean,
		SD:     sd,
		SE:     se,
		CILow:  mean - zCritical95*se,
		CIHigh: mean + zCritical95*se,
		Min:    sorted[0],
		Q1:     percentileValue(sorted, 0.25),
		Median: percentileValue(sorted, 0.50),
		Q3:     percentileValue(sorted, 0.75),
		Max:    sorted[n-1],
	}, nil
}

// proportion divides part by total as a float64 ratio. A zero denominator is
// an explicit error, never a silent zero or NaN.
func proportion(part, total int) (float64, error) {
	if total == 0 {
		return 0, errors.NewValidationError("proportion denominator is zero")
	}
	return float64(part) / float64(total), nil
}
