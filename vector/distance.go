package vector

import (
	"github.com/viant/vec/search"
)

// CosineSimilarity computes dot(a,b) / (‖a‖·‖b‖) in float64. When either
// vector has zero magnitude the result is NaN (0/0), which by IEEE semantics
// never compares greater than any real similarity; the Collector relies on
// that to keep zero-magnitude candidates from winning a replacement.
//
// Both vectors are expected to have the same length (the store normalizes
// everything to the collection dimension); when they differ, the dot product
// runs over the shorter prefix.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	ma := float64(search.Float32s(a).Magnitude())
	mb := float64(search.Float32s(b).Magnitude())
	return dot / (ma * mb)
}
