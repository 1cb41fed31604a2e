package service

import "math"

// Score computes the aggregate percentage for a finalized attempt:
// round(100 * correct/total, 2), with a zero-question exam scoring 0
// rather than dividing by zero. All questions weigh equally.
func Score(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(100 * float64(correct) / float64(total))
}

// round2 rounds half away from zero to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round1 rounds half away from zero to 1 decimal place. Used by the
// staff-facing completion and difficulty percentages.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
