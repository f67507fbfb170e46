package store

import "math"

// Cosine returns the cosine similarity dot(a,b) / (|a|*|b|) between two
// vectors. Returns 0 when either vector has zero magnitude or the lengths
// differ; callers treat those cases as "no similarity" rather than an error.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		magA += x * x
		magB += y * y
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
