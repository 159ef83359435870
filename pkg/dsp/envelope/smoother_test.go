package envelope

import (
	"math"
	"testing"
)

func TestExpSmootherCreation(t *testing.T) {
	e := NewExpSmootherCascade[float64](4, 48000.0, 0.001, 0.01)
	if e.Stages() != 4 {
		t.Errorf("Stages: got %d, want 4", e.Stages())
	}
	if e.attackCoeff <= 0 || e.attackCoeff >= 1 {
		t.Errorf("Attack coefficient out of range: %g", e.attackCoeff)
	}
	if e.releaseCoeff <= 0 || e.releaseCoeff >= 1 {
		t.Errorf("Release coefficient out of range: %g", e.releaseCoeff)
	}
	// A shorter time constant means a smaller coefficient (faster pole).
	if e.attackCoeff >= e.releaseCoeff {
		t.Errorf("Attack (%g) should be faster than release (%g)", e.attackCoeff, e.releaseCoeff)
	}
}

func TestExpSmootherCorrectionFactor(t *testing.T) {
	e := NewExpSmootherCascade[float64](4, 48000.0, 0.01, 0.05)
	want := 1.0 / math.Sqrt(math.Pow(2.0, 1.0/4.0)-1.0)
	if math.Abs(float64(e.correction)-want) > 1e-12 {
		t.Errorf("Correction factor: got %g, want %g", e.correction, want)
	}
}

func TestExpSmootherRiseIsMonotoneAndBounded(t *testing.T) {
	e := NewExpSmootherCascade[float64](4, 48000.0, 0.01, 0.05)

	n := 48000 / 10 // 100 ms of a unit step
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = 1.0
	}
	e.Process(x, y)

	prev := 0.0
	for i := range y {
		if y[i] < prev {
			t.Fatalf("Envelope not monotone at sample %d: %g < %g", i, y[i], prev)
		}
		if y[i] > 1.0 {
			t.Fatalf("Envelope overshoots input at sample %d: %g", i, y[i])
		}
		prev = y[i]
	}

	// The composite response should be well converged one attack time
	// constant past the step.
	if at := int(0.01 * 48000.0); y[at] < 0.95 {
		t.Errorf("Envelope too slow: %g at one attack time", y[at])
	}
}

func TestExpSmootherFallIsMonotoneAndBounded(t *testing.T) {
	e := NewExpSmootherCascade[float64](4, 48000.0, 0.001, 0.01)

	// Charge to 1, then release towards 0.
	up := make([]float64, 4800)
	for i := range up {
		up[i] = 1.0
	}
	e.Process(up, up)

	n := 4800
	x := make([]float64, n)
	y := make([]float64, n)
	e.Process(x, y)

	prev := 1.0
	for i := range y {
		if y[i] > prev {
			t.Fatalf("Release not monotone at sample %d: %g > %g", i, y[i], prev)
		}
		if y[i] < 0 {
			t.Fatalf("Release undershoots at sample %d: %g", i, y[i])
		}
		prev = y[i]
	}
	if y[n-1] > 0.01 {
		t.Errorf("Release too slow: %g after 100 ms", y[n-1])
	}
}

func TestExpSmootherFixedPoint(t *testing.T) {
	// A state equal to the input stays exactly there.
	e := NewExpSmootherCascade[float64](4, 48000.0, 0.01, 0.05)
	x := make([]float64, 64)
	y := make([]float64, 64)
	e.Process(x, y)
	for i, v := range y {
		if v != 0 {
			t.Fatalf("Zero input moved the state at sample %d: %g", i, v)
		}
	}
}

func TestExpSmootherReset(t *testing.T) {
	e := NewExpSmootherCascade[float64](4, 48000.0, 0.001, 0.01)
	x := make([]float64, 256)
	for i := range x {
		x[i] = 0.5
	}
	e.Process(x, x)
	e.Reset()
	for i, v := range e.state {
		if v != 0 {
			t.Errorf("Stage %d state not cleared: %g", i, v)
		}
	}
}

func TestExpSmootherDeterminism(t *testing.T) {
	run := func() []float32 {
		e := NewExpSmootherCascade[float32](4, 48000.0, 0.002, 0.02)
		x := make([]float32, 1024)
		y := make([]float32, 1024)
		for i := range x {
			x[i] = float32(math.Abs(math.Sin(float64(i) * 0.05)))
		}
		e.Process(x, y)
		return y
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Outputs differ at sample %d: %g != %g", i, a[i], b[i])
		}
	}
}

func BenchmarkExpSmootherProcess(b *testing.B) {
	e := NewExpSmootherCascade[float64](4, 48000.0, 0.01, 0.05)
	x := make([]float64, 512)
	y := make([]float64, 512)
	for i := range x {
		x[i] = float64(i%100) / 100.0
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Process(x, y)
	}
}
