package util

import "math"

// Percent returns round(100 * part / total), rounding half up. Both quiz
// scores and course progress use this derivation.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
