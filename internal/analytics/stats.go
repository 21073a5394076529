package analytics

import (
	"math"
	"sort"
)

// sortedCopy returns the values in ascending order without touching the
// caller's slice. Summing in a fixed order keeps results bit-identical for
// any permutation of the same multiset.
func sortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}

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

// sampleStdDev is the Bessel-corrected standard deviation. Zero for fewer
// than two values.
func sampleStdDev(values []float64, avg float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var ss float64
	for _, v := range values {
		d := v - avg
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// safeRatio returns num/den, or 0 when den is zero.
func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
