// Package stats holds the numeric primitives behind alert classification.
// Every function is total: undefined results are reported as nil or zero,
// never as NaN or an error.
package stats

import "math"

// Mean returns the arithmetic mean, or 0 for an empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StandardDeviation returns the population standard deviation of values
// around mean. Fewer than two samples, or identical samples, yield 0.
func StandardDeviation(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	identical := true
	for _, v := range values[1:] {
		if v != values[0] {
			identical = false
			break
		}
	}
	if identical {
		return 0
	}

	var acc float64
	for _, v := range values {
		d := v - mean
		acc += d * d
	}
	sd := math.Sqrt(acc / float64(len(values)))
	if math.IsNaN(sd) || math.IsInf(sd, 0) {
		return 0
	}
	return sd
}

// ZScore returns (value-mean)/stdDev, or nil when stdDev is zero.
func ZScore(value, mean, stdDev float64) *float64 {
	if stdDev == 0 || math.IsNaN(stdDev) {
		return nil
	}
	z := (value - mean) / stdDev
	return &z
}

// PercentChange returns the change from previous to current in percent.
// A zero previous value yields 100 for growth, -100 for a drop and nil when
// both are zero.
func PercentChange(current, previous float64) *float64 {
	if previous == 0 {
		switch {
		case current > 0:
			return Float(100)
		case current < 0:
			return Float(-100)
		default:
			return nil
		}
	}
	pc := (current - previous) / previous * 100
	return &pc
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
