package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Deinterleave splits interleaved stereo frames into left and right.
// Only min(len(left), len(right), len(src)/2) frames are written.
func Deinterleave(left, right []float64, src []float32) int {
	n := min(len(left), len(right), len(src)/2)
	for i := range n {
		left[i] = float64(src[2*i])
		right[i] = float64(src[2*i+1])
	}
	return n
}

// Interleave writes left and right into dst as interleaved stereo frames.
func Interleave(dst []float32, left, right []float64) int {
	n := min(len(left), len(right), len(dst)/2)
	for i := range n {
		dst[2*i] = float32(left[i])
		dst[2*i+1] = float32(right[i])
	}
	return n
}
