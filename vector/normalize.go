package vector

// Normalize returns v adjusted to exactly dim elements: longer inputs are
// truncated, shorter inputs are right-padded with 0.0. It never rejects
// content; NaN and Inf elements pass through unchanged. The result is always
// a fresh slice, so callers may retain it without aliasing the input.
func Normalize(v []float32, dim int) []float32 {
	out := make([]float32, dim)
	copy(out, v)
	return out
}
