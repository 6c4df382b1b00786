package dither

import "testing"

func TestStereoQuantize16(t *testing.T) {
	s, err := NewStereo(WithType(None))
	if err != nil {
		t.Fatalf("NewStereo: %v", err)
	}

	src := []float32{0.5, -0.25, 1, -1, 0}
	dst := make([]int16, len(src))
	if n := s.Quantize16(dst, src); n != 4 {
		t.Fatalf("Quantize16 = %d, want 4", n)
	}
	want := []int16{16384, -8192, 32767, -32767, 0}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d] = %d, want %d", i, dst[i], want[i])
		}
	}
}

func TestStereoChannelsUncorrelated(t *testing.T) {
	s, err := NewStereo(WithSeed(3))
	if err != nil {
		t.Fatalf("NewStereo: %v", err)
	}

	src := make([]float32, 2048)
	dst := make([]int16, len(src))
	s.Quantize16(dst, src)

	same := 0
	for i := 0; i < len(dst); i += 2 {
		if dst[i] == dst[i+1] {
			same++
		}
	}
	if same == len(dst)/2 {
		t.Fatal("left and right dither identical")
	}
}
