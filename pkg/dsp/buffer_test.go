package dsp

import "testing"

func TestClear(t *testing.T) {
	buf := []float64{1.0, 2.0, 3.0}
	Clear(buf)
	for i, v := range buf {
		if v != 0 {
			t.Errorf("Sample %d not cleared: %f", i, v)
		}
	}
}

func TestAbsMax(t *testing.T) {
	left := []float64{0.5, -0.8, 0.0, -0.1}
	right := []float64{-0.6, 0.2, 0.0, 0.1}
	dst := make([]float64, 4)
	AbsMax(dst, left, right)
	want := []float64{0.6, 0.8, 0.0, 0.1}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("Sample %d: got %f, want %f", i, dst[i], want[i])
		}
	}
}

func TestPeak(t *testing.T) {
	if got := Peak([]float32{0.1, -0.9, 0.5}); got != 0.9 {
		t.Errorf("Peak: got %f, want 0.9", got)
	}
	if got := Peak([]float64{}); got != 0 {
		t.Errorf("Peak of empty: got %f, want 0", got)
	}
}

func TestMultiply(t *testing.T) {
	dst := []float64{1.0, 2.0, 3.0}
	src := []float64{0.5, 0.5}
	Multiply(dst, src)
	want := []float64{0.5, 1.0, 3.0}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("Sample %d: got %f, want %f", i, dst[i], want[i])
		}
	}
}
