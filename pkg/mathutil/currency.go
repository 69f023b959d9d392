// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/loan-affordability/pkg/constants"
)

// PercentToFraction converts a percentage (4.0) into a fraction (0.04).
func PercentToFraction(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}

// FractionToPercent converts a fraction (0.04) into a percentage (4.0).
func FractionToPercent(fraction float64) float64 {
	return fraction * constants.PercentageMultiplier
}

// NextPowerOfTwoMultiple returns the smallest unit*2^k (k >= 0) that is at
// least target. A non-positive unit is returned unchanged.
func NextPowerOfTwoMultiple(target, unit float64) float64 {
	if unit <= 0 {
		return unit
	}
	bound := unit
	for bound < target && !math.IsInf(bound, 1) {
		bound *= 2
	}
	return bound
}
