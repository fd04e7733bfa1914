// Package util provides common helpers for price and strike arithmetic.
package util

import "math"

// RoundToStep rounds x to the nearest multiple of step.
// For example, with step=50, 25738 becomes 25750.
func RoundToStep(x, step float64) float64 {
	if step <= 0 {
		return x
	}
	return math.Round(x/step) * step
}
