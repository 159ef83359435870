package utility

import (
	"math/rand"

	"github.com/justyntemme/peaklimit/pkg/dsp"
)

// NoiseGenerator generates uniform white noise in [-1, 1). Seed it for
// reproducible test signals.
type NoiseGenerator[R dsp.Sample] struct {
	rand *rand.Rand
}

// NewNoiseGenerator creates a new noise generator with a random seed.
func NewNoiseGenerator[R dsp.Sample]() *NoiseGenerator[R] {
	return &NoiseGenerator[R]{
		rand: rand.New(rand.NewSource(rand.Int63())),
	}
}

// SetSeed sets the random seed for reproducible noise.
func (n *NoiseGenerator[R]) SetSeed(seed int64) {
	n.rand = rand.New(rand.NewSource(seed))
}

// Next returns the next noise sample.
func (n *NoiseGenerator[R]) Next() R {
	return R(n.rand.Float64()*2.0 - 1.0)
}

// Process fills buffer with noise - no allocations
func (n *NoiseGenerator[R]) Process(buffer []R) {
	for i := range buffer {
		buffer[i] = n.Next()
	}
}

// ProcessScaled fills buffer with noise scaled to the given amplitude.
func (n *NoiseGenerator[R]) ProcessScaled(buffer []R, amplitude R) {
	for i := range buffer {
		buffer[i] = n.Next() * amplitude
	}
}
