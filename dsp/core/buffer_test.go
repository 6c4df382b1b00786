package core

import "testing"

func TestEnsureLenReusesCapacity(t *testing.T) {
	buf := make([]float64, 2, 8)
	got := EnsureLen(buf, 6)
	if len(got) != 6 || cap(got) != 8 {
		t.Fatalf("EnsureLen() len=%d cap=%d, want len=6 cap=8", len(got), cap(got))
	}
	if got := EnsureLen(buf, 0); len(got) != 0 {
		t.Fatalf("EnsureLen(0) len=%d, want 0", len(got))
	}
}

func TestInterleaveRoundTrip(t *testing.T) {
	src := []float32{0.5, -0.5, 0.25, -0.25, 1, -1}
	left := make([]float64, 3)
	right := make([]float64, 3)

	if n := Deinterleave(left, right, src); n != 3 {
		t.Fatalf("Deinterleave() = %d, want 3", n)
	}
	if left[1] != 0.25 || right[2] != -1 {
		t.Fatalf("unexpected split: left=%v right=%v", left, right)
	}

	dst := make([]float32, 6)
	if n := Interleave(dst, left, right); n != 3 {
		t.Fatalf("Interleave() = %d, want 3", n)
	}
	for i := range src {
		if dst[i] != src[i] {
			t.Fatalf("index %d: got %v, want %v", i, dst[i], src[i])
		}
	}
}
