// Package money holds the currency rounding helpers shared by the cart
// summary math and the pricing enrichment pass.
package money

import (
	"fmt"
	"math"
)

// Round2 rounds to 2 decimal places, half away from zero. Applied after
// each subtraction so repeated discounting cannot accumulate float drift.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Format2 renders an amount with exactly two decimal places for display.
func Format2(x float64) string {
	return fmt.Sprintf("%.2f", Round2(x))
}
