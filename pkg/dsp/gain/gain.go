// Package gain provides amplitude and gain-related DSP operations.
package gain

import (
	"math"

	"github.com/justyntemme/peaklimit/pkg/dsp"
)

// MinDB is the minimum dB value (effectively -infinity).
const MinDB = -200.0

// LinearToDb converts a linear amplitude value to decibels.
// Returns MinDB for values <= 0.
func LinearToDb[R dsp.Sample](linear R) R {
	if linear <= 0 {
		return MinDB
	}
	return R(20.0 * math.Log10(float64(linear)))
}

// DbToLinear converts a decibel value to linear amplitude.
// Values <= MinDB return 0.
func DbToLinear[R dsp.Sample](db R) R {
	if db <= MinDB {
		return 0
	}
	return R(math.Pow(10.0, float64(db)/20.0))
}

// ApplyBuffer applies gain to an entire buffer in-place.
func ApplyBuffer[R dsp.Sample](buffer []R, gain R) {
	for i := range buffer {
		buffer[i] *= gain
	}
}
