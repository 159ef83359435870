package envelope

import "testing"

func TestPeakHoldCreation(t *testing.T) {
	p := NewPeakHoldCascade[float64](8, 48000.0, 0.008)
	if p.Stages() != 8 {
		t.Errorf("Stages: got %d, want 8", p.Stages())
	}
	// 0.008 / 8 * 48000 = 48 samples per section
	if p.HoldSamplesPerStage() != 48 {
		t.Errorf("Hold samples per stage: got %d, want 48", p.HoldSamplesPerStage())
	}
}

func TestPeakHoldSampleRateChange(t *testing.T) {
	p := NewPeakHoldCascade[float64](8, 48000.0, 0.008)
	p.SetSampleRate(96000.0)
	if p.HoldSamplesPerStage() != 96 {
		t.Errorf("Hold samples per stage after rate change: got %d, want 96", p.HoldSamplesPerStage())
	}
}

func TestPeakHoldHoldsPeakForFullWindow(t *testing.T) {
	const stages = 8
	p := NewPeakHoldCascade[float64](stages, 48000.0, 0.008)
	window := p.HoldSamplesPerStage() * stages // 384 samples

	total := 4 * window
	x := make([]float64, total)
	y := make([]float64, total)
	const level = 0.8
	for i := 0; i < window; i++ {
		x[i] = level
	}
	p.Process(x, y)

	// While the input is present the envelope tracks it, and the cascade
	// keeps holding it for at least a full window after the input drops.
	for n := 0; n < 2*window-1; n++ {
		if y[n] != level {
			t.Fatalf("Envelope dropped early at sample %d: got %g, want %g", n, y[n], level)
		}
	}

	// Eventually the peak drains out of every section.
	if y[total-1] != 0 {
		t.Errorf("Envelope never released: got %g", y[total-1])
	}
}

func TestPeakHoldSecondaryPeakRecovery(t *testing.T) {
	// An impulse followed 0.002 s later by a half-amplitude impulse: the
	// cascade must surface the second peak even though it arrives inside
	// the first one's window.
	const stages = 8
	p := NewPeakHoldCascade[float64](stages, 48000.0, 0.008)

	total := 2048
	x := make([]float64, total)
	y := make([]float64, total)
	x[0] = 1.0
	x[96] = 0.5
	p.Process(x, y)

	if y[0] != 1.0 {
		t.Errorf("First impulse not latched: got %g", y[0])
	}
	if at := 96 + 192; y[at] < 0.5 {
		t.Errorf("Secondary peak lost: envelope at sample %d is %g, want >= 0.5", at, y[at])
	}
}

func TestPeakHoldRectifiesInput(t *testing.T) {
	p := NewPeakHoldCascade[float64](4, 48000.0, 0.001)
	x := []float64{-0.9, 0.1, 0.0, 0.0}
	y := make([]float64, len(x))
	p.Process(x, y)
	if y[0] != 0.9 {
		t.Errorf("Negative peak not rectified: got %g, want 0.9", y[0])
	}
}

func TestPeakHoldZeroHoldTracksInput(t *testing.T) {
	// With a zero hold time every section times out immediately, so the
	// cascade reduces to a rectifier.
	p := NewPeakHoldCascade[float64](8, 48000.0, 0)
	x := []float64{0.3, -0.7, 0.2, 0.0}
	y := make([]float64, len(x))
	p.Process(x, y)
	want := []float64{0.3, 0.7, 0.2, 0.0}
	for i := range want {
		if y[i] != want[i] {
			t.Errorf("Sample %d: got %g, want %g", i, y[i], want[i])
		}
	}
}

func TestPeakHoldReset(t *testing.T) {
	p := NewPeakHoldCascade[float64](8, 48000.0, 0.01)
	x := make([]float64, 100)
	for i := range x {
		x[i] = 1.0
	}
	p.Process(x, x)

	p.Reset()
	for i, v := range p.output {
		if v != 0 {
			t.Errorf("Stage %d output not cleared: %g", i, v)
		}
	}
	for i, v := range p.timer {
		if v != 0 {
			t.Errorf("Stage %d timer not cleared: %d", i, v)
		}
	}
}

func BenchmarkPeakHoldProcess(b *testing.B) {
	p := NewPeakHoldCascade[float64](8, 48000.0, 0.01)
	x := make([]float64, 512)
	y := make([]float64, 512)
	for i := range x {
		x[i] = float64(i%64) / 64.0
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Process(x, y)
	}
}
