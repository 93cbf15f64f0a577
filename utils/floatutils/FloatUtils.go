// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/spatial/r1"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// ClipInterval is a wrapper to use Clip with an r1.Interval instead of
// a separate max and min value
func ClipInterval(value float64, interval r1.Interval) float64 {
	return Clip(value, interval.Min, interval.Max)
}

// Wrap wraps a floating point around so that it stays within the
// interval [min, max). This is used to keep angles within [-π, π).
func Wrap(value, min, max float64) float64 {
	diff := max - min
	for value >= max {
		value -= diff
	}
	for value < min {
		value += diff
	}
	return value
}

// WrapInterval is a wrapper to use Wrap with an r1.Interval
func WrapInterval(value float64, interval r1.Interval) float64 {
	return Wrap(value, interval.Min, interval.Max)
}

// Sign returns -1.0 if value < 0, 1.0 if value > 0, and 0 otherwise
func Sign(value float64) float64 {
	switch {
	case value > 0:
		return 1.0
	case value < 0:
		return -1.0
	default:
		return 0.0
	}
}

// Finite returns whether value is neither NaN nor ±Inf
func Finite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
