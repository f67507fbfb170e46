package utils

import "math"

// Round4 rounds x to 4 decimal places. All candidate scores are rounded this
// way before comparison or sorting so that rankings are reproducible.
func Round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}

// NormalizeL2 normalizes the slice in place to unit L2 norm.
// If the norm is zero, the slice is unchanged.
func NormalizeL2(x []float32) {
	var sum float32
	for _, v := range x {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range x {
		x[i] *= norm
	}
}
