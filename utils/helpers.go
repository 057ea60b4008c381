package utils

import "math"

// RoundHalfUp rounds to the nearest integer, halves away from negative
// infinity, matching how the dashboard has always rounded.
func RoundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Round2 rounds to two decimal places, halves up.
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

// Percent returns part/total*100 rounded to two decimals, or 0 when total is 0.
func Percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(float64(part) / float64(total) * 100)
}
