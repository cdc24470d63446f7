package lp

import "math"

const (
	// Eps is the magnitude below which a solved value or a denominator counts as zero.
	Eps = 1e-6

	// SelectThreshold is the cut-off above which a binary variable counts as selected.
	// Solvers may return 0.9999997 or 3e-9 for a {0,1} column; 0.5 is robust to both.
	SelectThreshold = 0.5

	// IntTol is the distance from the nearest integer accepted as integral.
	IntTol = 1e-6
)

// NonZero reports whether v is distinguishable from zero under Eps.
func NonZero(v float64) bool {
	return math.Abs(v) > Eps
}

// Selected reports whether a binary decision is taken.
func Selected(v float64) bool {
	return v > SelectThreshold
}

// IsIntegral reports whether v lies within IntTol of an integer.
func IsIntegral(v float64) bool {
	return math.Abs(v-math.Round(v)) <= IntTol
}

// Ratio divides num by den. When |den| ≤ Eps the ratio is undefined: it returns
// (0, false), meaning "nothing allocated, no attributable unit value".
func Ratio(num, den float64) (float64, bool) {
	if math.Abs(den) <= Eps {
		return 0, false
	}
	return num / den, true
}
