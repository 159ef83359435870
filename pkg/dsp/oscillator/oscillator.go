// Package oscillator provides periodic test-signal sources.
package oscillator

import (
	"math"

	"github.com/justyntemme/peaklimit/pkg/dsp"
)

// Oscillator generates periodic waveforms from a wrapping phase
// accumulator.
type Oscillator[R dsp.Sample] struct {
	sampleRate R
	frequency  R
	phase      R
	phaseInc   R
}

// New creates a new oscillator at 440 Hz.
func New[R dsp.Sample](sampleRate R) *Oscillator[R] {
	o := &Oscillator[R]{
		sampleRate: sampleRate,
		frequency:  440.0,
	}
	o.phaseInc = o.frequency / o.sampleRate
	return o
}

// SetFrequency sets the oscillator frequency in Hz.
func (o *Oscillator[R]) SetFrequency(freq R) {
	o.frequency = freq
	o.phaseInc = freq / o.sampleRate
}

// SetPhase sets the oscillator phase (0-1).
func (o *Oscillator[R]) SetPhase(phase R) {
	o.phase = phase - R(math.Floor(float64(phase)))
}

// Reset resets the oscillator phase to 0.
func (o *Oscillator[R]) Reset() {
	o.phase = 0
}

func (o *Oscillator[R]) updatePhase() {
	o.phase += o.phaseInc
	if o.phase >= 1.0 {
		o.phase -= R(math.Floor(float64(o.phase)))
	}
}

// Sine generates a sine wave sample.
func (o *Oscillator[R]) Sine() R {
	sample := R(math.Sin(dsp.TwoPi * float64(o.phase)))
	o.updatePhase()
	return sample
}

// ProcessSine fills buffer with a sine wave - no allocations
func (o *Oscillator[R]) ProcessSine(buffer []R) {
	for i := range buffer {
		buffer[i] = o.Sine()
	}
}

// ProcessSineScaled fills buffer with a sine wave at the given amplitude.
func (o *Oscillator[R]) ProcessSineScaled(buffer []R, amplitude R) {
	for i := range buffer {
		buffer[i] = o.Sine() * amplitude
	}
}
