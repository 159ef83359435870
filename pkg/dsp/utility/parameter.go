// Package utility provides common DSP utility functions and processors.
package utility

import (
	"math"

	"github.com/justyntemme/peaklimit/pkg/dsp"
)

// SmoothParameter provides parameter smoothing using a one-pole low-pass
// filter. This avoids zipper noise and clicks when parameters change at
// block rate while the audio path runs at sample rate.
type SmoothParameter[R dsp.Sample] struct {
	current R
	coeff   R
}

// NewSmoothParameter creates a parameter smoother whose one-pole cutoff is
// cutoffHz at the given sample rate.
func NewSmoothParameter[R dsp.Sample](cutoffHz, sampleRate R) *SmoothParameter[R] {
	s := &SmoothParameter[R]{}
	s.SetCutoff(cutoffHz, sampleRate)
	return s
}

// SetCutoff rebuilds the smoothing coefficient for a one-pole low-pass at
// cutoffHz.
func (s *SmoothParameter[R]) SetCutoff(cutoffHz, sampleRate R) {
	if sampleRate <= 0 {
		sampleRate = dsp.SampleRate48k
	}
	if cutoffHz <= 0 {
		cutoffHz = dsp.ParamSmoothingHz
	}
	s.coeff = R(math.Exp(float64(-dsp.TwoPi * cutoffHz / sampleRate)))
}

// SetImmediate sets the current value without smoothing.
func (s *SmoothParameter[R]) SetImmediate(value R) {
	s.current = value
}

// Current returns the current smoothed value without advancing.
func (s *SmoothParameter[R]) Current() R {
	return s.current
}

// Next advances the smoother one sample towards target and returns the new
// value.
func (s *SmoothParameter[R]) Next(target R) R {
	s.current = target + s.coeff*(s.current-target)
	return s.current
}

// Reset returns the smoother to its zero initial state.
func (s *SmoothParameter[R]) Reset() {
	s.current = 0
}
