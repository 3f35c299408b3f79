package utils

import "math"

// ToFils converts a decimal AED amount to integer fils. Rounding, never
// truncation: truncating 19.999*100 would systematically undercharge.
func ToFils(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromFils converts integer fils back to a decimal AED amount.
func FromFils(fils int64) float64 {
	return float64(fils) / 100
}
