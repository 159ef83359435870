// Package delay provides delay line implementations for audio effects
package delay

import "github.com/justyntemme/peaklimit/pkg/dsp"

// SmoothCap is the capacity of a Smooth delay line in samples. The read and
// write heads are uint16, so head arithmetic wraps naturally modulo the
// buffer length and the maximum delay is SmoothCap-1 samples.
const SmoothCap = 1 << 16

// Smooth implements a click-free variable delay line. Two integer-indexed
// read heads tap the same circular buffer; changing the delay starts a
// linear crossfade from the active tap to the inactive one, which has been
// set to the new delay. Delay changes therefore never produce the pitch
// artefacts of a resampling (Doppler) delay.
type Smooth[R dsp.Sample] struct {
	buffer []R

	// Heads cycle continuously through the uint16 range; the read heads
	// are offset from the write head by the tap delays.
	writePtr     uint16
	lowerReadPtr uint16
	upperReadPtr uint16

	delay      uint16 // requested delay, adopted by the inactive tap
	lowerDelay uint16
	upperDelay uint16

	interpTime int
	interp     R // crossfade position in [0, 1]
	step       R
	increment  R // signed crossfade rate: one of +step, -step
}

// New creates a smooth delay line with an initial delay and crossfade
// length, both in samples.
func New[R dsp.Sample](delaySamples, interpTimeSamples int) *Smooth[R] {
	s := &Smooth[R]{
		buffer: make([]R, SmoothCap),
	}
	s.SetInterpolationTime(interpTimeSamples)
	s.increment = s.step
	s.SetDelay(delaySamples)
	return s
}

// SetDelay requests a new delay in samples. The request is latched and
// becomes effective at the start of the next crossfade; it is clamped to
// the line capacity.
func (s *Smooth[R]) SetDelay(delaySamples int) {
	if delaySamples < 0 {
		delaySamples = 0
	}
	if delaySamples > SmoothCap-1 {
		delaySamples = SmoothCap - 1
	}
	s.delay = uint16(delaySamples)
}

// Delay returns the currently requested delay in samples.
func (s *Smooth[R]) Delay() int {
	return int(s.delay)
}

// SetInterpolationTime sets the crossfade length in samples (minimum 1).
// Like the delay, it takes effect at the start of the next crossfade.
func (s *Smooth[R]) SetInterpolationTime(interpTimeSamples int) {
	if interpTimeSamples < 1 {
		interpTimeSamples = 1
	}
	s.interpTime = interpTimeSamples
	s.step = 1.0 / R(interpTimeSamples)
}

// Reset clears the buffer, heads, and crossfade state. The requested delay
// and interpolation time are configuration and survive the reset.
func (s *Smooth[R]) Reset() {
	dsp.Clear(s.buffer)
	s.writePtr = 0
	s.lowerReadPtr = 0
	s.upperReadPtr = 0
	s.lowerDelay = 0
	s.upperDelay = 0
	s.interp = 0
	s.increment = s.step
}

// Process runs the delay line over a block. x and y may alias. While a
// crossfade is in progress neither tap delay changes; a pending delay
// request is adopted once the crossfade position has saturated at an
// endpoint.
func (s *Smooth[R]) Process(x, y []R) {
	n := min(len(x), len(y))
	for i := 0; i < n; i++ {
		s.buffer[s.writePtr] = x[i]

		lowerReach := s.interp == 0
		upperReach := s.interp == 1
		startDownward := upperReach && s.delay != s.upperDelay
		startUpward := lowerReach && s.delay != s.lowerDelay

		if startDownward {
			s.increment = -s.step
		} else if startUpward {
			s.increment = s.step
		}

		// The tap that just became inactive picks up the requested delay.
		if upperReach {
			s.lowerDelay = s.delay
		}
		if lowerReach {
			s.upperDelay = s.delay
		}

		s.lowerReadPtr = s.writePtr - s.lowerDelay
		s.upperReadPtr = s.writePtr - s.upperDelay
		s.writePtr++

		s.interp = max(0, min(1, s.interp+s.increment))
		lower := s.buffer[s.lowerReadPtr]
		upper := s.buffer[s.upperReadPtr]
		y[i] = lower + s.interp*(upper-lower)
	}
}
