package climate

import (
	"math"
	"sort"
)

// mean returns the arithmetic mean, 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median returns the middle value, averaging the two central values for
// even-length input.
func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// popStd returns the population standard deviation.
func popStd(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

// percentile computes the p-th percentile with linear interpolation
// between closest ranks, matching the numpy default.
func percentile(values []float64, p float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if n == 1 {
		return sorted[0]
	}
	idx := p / 100 * float64(n-1)
	lo := int(idx)
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// linearFit runs an ordinary least-squares fit of values against their
// index and returns the slope, intercept and coefficient of determination.
// At least two values are required; callers must check beforehand.
func linearFit(values []float64) (slope, intercept, rSquared float64) {
	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, mean(values), 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n

	yMean := sumY / n
	var ssRes, ssTot float64
	for i, v := range values {
		pred := slope*float64(i) + intercept
		ssRes += (v - pred) * (v - pred)
		ssTot += (v - yMean) * (v - yMean)
	}
	if ssTot == 0 {
		// Constant series: the fit is exact.
		return slope, intercept, 1
	}
	return slope, intercept, 1 - ssRes/ssTot
}
