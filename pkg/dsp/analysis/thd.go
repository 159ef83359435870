package analysis

import (
	"fmt"
	"math"

	"github.com/ktye/fft"
)

// THDAnalyzer measures the total harmonic distortion of a near-periodic
// signal: the root-sum-square magnitude at harmonic multiples of the
// fundamental relative to the magnitude of the fundamental itself (an
// amplitude ratio, not an energy ratio). The fundamental is taken as the
// largest-magnitude bin of a Hann-windowed FFT.
type THDAnalyzer struct {
	size   int
	fft    fft.FFT
	window []float64
	buf    []complex128
}

// NewTHDAnalyzer creates an analyzer over windows of the given size, which
// must be a power of two of at least 256 samples.
func NewTHDAnalyzer(size int) (*THDAnalyzer, error) {
	if size < 256 || size&(size-1) != 0 {
		return nil, fmt.Errorf("analysis: fft size must be a power of two >= 256, got %d", size)
	}
	f, err := fft.New(size)
	if err != nil {
		return nil, fmt.Errorf("analysis: fft init: %w", err)
	}
	window := make([]float64, size)
	for i := range window {
		window[i] = 0.5 * (1.0 - math.Cos(2.0*math.Pi*float64(i)/float64(size)))
	}
	return &THDAnalyzer{
		size:   size,
		fft:    f,
		window: window,
		buf:    make([]complex128, size),
	}, nil
}

// Size returns the analysis window length in samples.
func (a *THDAnalyzer) Size() int {
	return a.size
}

// Measure returns the THD ratio of the first Size() samples of signal and
// the fundamental's bin index. A pure sine returns a value near zero; 1%
// distortion returns roughly 0.01.
func (a *THDAnalyzer) Measure(signal []float64) (float64, int, error) {
	if len(signal) < a.size {
		return 0, 0, fmt.Errorf("analysis: need %d samples, got %d", a.size, len(signal))
	}
	for i := 0; i < a.size; i++ {
		a.buf[i] = complex(signal[i]*a.window[i], 0)
	}
	a.buf = a.fft.Transform(a.buf)

	// Find the fundamental over the positive-frequency half, skipping DC
	// and the first bin where the Hann mainlobe of DC can leak.
	half := a.size / 2
	fundBin := 0
	fundMag := 0.0
	for k := 2; k < half; k++ {
		m := cmplxAbs(a.buf[k])
		if m > fundMag {
			fundMag = m
			fundBin = k
		}
	}
	if fundBin == 0 || fundMag == 0 {
		return 0, 0, fmt.Errorf("analysis: no fundamental found")
	}

	// Sum harmonic energy at integer multiples of the fundamental. The
	// Hann window spreads each partial over three bins, so take the
	// strongest of a small neighbourhood per harmonic.
	harmSum := 0.0
	for h := 2; h*fundBin < half; h++ {
		center := h * fundBin
		m := 0.0
		for k := center - 2; k <= center+2; k++ {
			if k <= 0 || k >= half {
				continue
			}
			if v := cmplxAbs(a.buf[k]); v > m {
				m = v
			}
		}
		harmSum += m * m
	}
	return math.Sqrt(harmSum) / fundMag, fundBin, nil
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
