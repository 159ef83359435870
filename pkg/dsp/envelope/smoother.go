package envelope

import (
	"math"

	"github.com/justyntemme/peaklimit/pkg/dsp"
)

// ExpSmootherCascade smooths an envelope with N one-pole sections in
// series. Each section independently selects the attack or release
// coefficient depending on whether its input exceeds its state, which
// makes the cascade a non-linear follower with very low harmonic
// distortion on asymmetric signals.
//
// The per-stage time constants are corrected by 1/sqrt(2^(1/N)-1) so that
// the composite -3 dB rise and fall times match the configured attack and
// release times.
type ExpSmootherCascade[R dsp.Sample] struct {
	sampleRate  R
	twoPiT      R
	attackTime  R // attack time in seconds
	releaseTime R // release time in seconds
	correction  R

	attackCoeff  R
	releaseCoeff R

	state []R
}

// NewExpSmootherCascade creates a cascade of the given number of sections.
func NewExpSmootherCascade[R dsp.Sample](stages int, sampleRate, attackTime, releaseTime R) *ExpSmootherCascade[R] {
	if stages < 1 {
		stages = 1
	}
	e := &ExpSmootherCascade[R]{
		correction: R(1.0 / math.Sqrt(math.Pow(2.0, 1.0/float64(stages))-1.0)),
		state:      make([]R, stages),
	}
	e.setSampleRate(sampleRate)
	e.attackTime = clampTime(attackTime)
	e.releaseTime = clampTime(releaseTime)
	e.updateCoefficients()
	return e
}

// Stages returns the number of cascaded sections.
func (e *ExpSmootherCascade[R]) Stages() int {
	return len(e.state)
}

// SetSampleRate sets the sample rate in Hz and rebuilds both coefficients.
func (e *ExpSmootherCascade[R]) SetSampleRate(sampleRate R) {
	e.setSampleRate(sampleRate)
	e.updateCoefficients()
}

func (e *ExpSmootherCascade[R]) setSampleRate(sampleRate R) {
	if sampleRate <= 0 {
		sampleRate = dsp.SampleRate48k
	}
	e.sampleRate = sampleRate
	e.twoPiT = R(dsp.TwoPi) / sampleRate
}

// SetAttackTime sets the composite attack time constant in seconds.
func (e *ExpSmootherCascade[R]) SetAttackTime(seconds R) {
	e.attackTime = clampTime(seconds)
	e.attackCoeff = e.coefficient(e.attackTime)
}

// SetReleaseTime sets the composite release time constant in seconds.
func (e *ExpSmootherCascade[R]) SetReleaseTime(seconds R) {
	e.releaseTime = clampTime(seconds)
	e.releaseCoeff = e.coefficient(e.releaseTime)
}

func (e *ExpSmootherCascade[R]) updateCoefficients() {
	e.attackCoeff = e.coefficient(e.attackTime)
	e.releaseCoeff = e.coefficient(e.releaseTime)
}

func (e *ExpSmootherCascade[R]) coefficient(tau R) R {
	return R(math.Exp(float64(-e.twoPiT * e.correction / tau)))
}

func clampTime[R dsp.Sample](seconds R) R {
	if seconds < dsp.DefaultMinAttack {
		return dsp.DefaultMinAttack
	}
	return seconds
}

// Reset zeroes all section states.
func (e *ExpSmootherCascade[R]) Reset() {
	dsp.Clear(e.state)
}

// Process writes the cascaded smoothed envelope of x into y. x and y may
// alias.
func (e *ExpSmootherCascade[R]) Process(x, y []R) {
	n := min(len(x), len(y))
	for i := 0; i < n; i++ {
		u := x[i]
		for stage := range e.state {
			c := e.releaseCoeff
			if u > e.state[stage] {
				c = e.attackCoeff
			}
			e.state[stage] = u + c*(e.state[stage]-u)
			u = e.state[stage]
		}
		y[i] = e.state[len(e.state)-1]
	}
}
