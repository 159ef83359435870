// Package dynamics provides dynamic range processors.
package dynamics

import (
	"math"

	"github.com/justyntemme/peaklimit/pkg/dsp"
	"github.com/justyntemme/peaklimit/pkg/dsp/delay"
	"github.com/justyntemme/peaklimit/pkg/dsp/envelope"
	"github.com/justyntemme/peaklimit/pkg/dsp/gain"
	"github.com/justyntemme/peaklimit/pkg/dsp/utility"
)

// Cascade depths of the side-chain. Eight peak-hold sections let secondary
// peaks inside the attack window surface; four smoother sections keep the
// attenuation envelope low in harmonic distortion.
const (
	PeakHoldSections = 8
	SmootherSections = 4
)

// Limiter is a stereo look-ahead brick-wall limiter. The side-chain derives
// a mono envelope from the channel-wise absolute maximum, approximates the
// moving maximum over the attack window with a peak-hold cascade, smooths
// it with a branching one-pole cascade, and divides the threshold by the
// result to obtain an attenuation gain. The audio path is delayed by the
// look-ahead so the attenuation is in place before each peak arrives; the
// instantaneous output level therefore never exceeds the ceiling at steady
// state.
//
// A Limiter instance is not safe for concurrent use. Use one instance per
// stream.
type Limiter[R dsp.Sample] struct {
	sampleRate R

	// Parameters
	attack      R // attack time in seconds
	hold        R // hold time in seconds
	release     R // release time in seconds
	thresholdDB R // ceiling in dB
	preGainDB   R // input gain in dB

	linThreshold R
	linPreGain   R

	// One-pole smoothers for click-free parameter automation.
	preGain   *utility.SmoothParameter[R]
	threshold *utility.SmoothParameter[R]

	// lookahead is quantised to a multiple of PeakHoldSections so the
	// peak-hold window and the delay length stay exactly aligned.
	lookahead int

	delayLeft   *delay.Smooth[R]
	delayRight  *delay.Smooth[R]
	peakHolder  *envelope.PeakHoldCascade[R]
	expSmoother *envelope.ExpSmootherCascade[R]

	gainReduction R // most recent block's maximum attenuation in dB

	// Scratch reused across calls; grows only when a larger block than
	// ever seen arrives.
	scratchL []R
	scratchR []R
	env      []R
	thr      []R
}

// LimiterConfig carries a full limiter configuration. Times are in seconds,
// levels in dB.
type LimiterConfig[R dsp.Sample] struct {
	SampleRate  R
	PreGainDB   R
	Attack      R
	Hold        R
	Release     R
	ThresholdDB R
}

// DefaultLimiterConfig returns the default configuration at the given
// sample rate.
func DefaultLimiterConfig[R dsp.Sample](sampleRate R) LimiterConfig[R] {
	return LimiterConfig[R]{
		SampleRate:  sampleRate,
		PreGainDB:   0,
		Attack:      0.01,
		Hold:        0,
		Release:     0.05,
		ThresholdDB: -0.3,
	}
}

// NewLimiter creates a limiter with the default configuration.
func NewLimiter[R dsp.Sample](sampleRate R) *Limiter[R] {
	return NewLimiterFromConfig(DefaultLimiterConfig(sampleRate))
}

// NewLimiterFromConfig creates a limiter from a full configuration.
func NewLimiterFromConfig[R dsp.Sample](cfg LimiterConfig[R]) *Limiter[R] {
	sr := cfg.SampleRate
	if sr <= 0 || !isFinite(sr) {
		sr = dsp.SampleRate48k
	}
	l := &Limiter[R]{
		sampleRate:  sr,
		preGain:     utility.NewSmoothParameter[R](dsp.ParamSmoothingHz, sr),
		threshold:   utility.NewSmoothParameter[R](dsp.ParamSmoothingHz, sr),
		delayLeft:   delay.New[R](0, 1),
		delayRight:  delay.New[R](0, 1),
		peakHolder:  envelope.NewPeakHoldCascade[R](PeakHoldSections, sr, 0),
		expSmoother: envelope.NewExpSmootherCascade[R](SmootherSections, sr, cfg.Attack, cfg.Release),
		scratchL:    make([]R, dsp.DefaultBufferSize),
		scratchR:    make([]R, dsp.DefaultBufferSize),
		env:         make([]R, dsp.DefaultBufferSize),
		thr:         make([]R, dsp.DefaultBufferSize),
	}
	l.SetPreGain(cfg.PreGainDB)
	l.SetThreshold(cfg.ThresholdDB)
	l.SetHold(cfg.Hold)
	l.SetRelease(cfg.Release)
	l.SetAttack(cfg.Attack)
	return l
}

// SetSampleRate sets the sample rate in Hz and rebuilds every
// rate-dependent coefficient, including the look-ahead delay.
func (l *Limiter[R]) SetSampleRate(sampleRate R) {
	if sampleRate <= 0 || !isFinite(sampleRate) {
		return
	}
	l.sampleRate = sampleRate
	l.preGain.SetCutoff(dsp.ParamSmoothingHz, sampleRate)
	l.threshold.SetCutoff(dsp.ParamSmoothingHz, sampleRate)
	l.peakHolder.SetSampleRate(sampleRate)
	l.expSmoother.SetSampleRate(sampleRate)
	l.updateLookahead()
}

// SetAttack sets the attack time in seconds. The look-ahead delay, the
// delay crossfade length, the peak-hold period, and the smoother attack
// time all follow from it.
func (l *Limiter[R]) SetAttack(seconds R) {
	l.attack = clampR(seconds, dsp.DefaultMinAttack, dsp.DefaultMaxAttack)
	l.updateLookahead()
	l.expSmoother.SetAttackTime(l.attack)
	l.peakHolder.SetHoldTime(l.attack + l.hold)
}

// SetHold sets the hold time in seconds. The hold extends the peak-hold
// period beyond the attack window, which improves convergence to the
// target amplitude and reduces distortion at low frequencies.
func (l *Limiter[R]) SetHold(seconds R) {
	if seconds < 0 || !isFinite(seconds) {
		seconds = 0
	}
	l.hold = seconds
	l.peakHolder.SetHoldTime(l.attack + l.hold)
}

// SetRelease sets the release time in seconds.
func (l *Limiter[R]) SetRelease(seconds R) {
	l.release = clampR(seconds, dsp.DefaultMinRelease, dsp.DefaultMaxRelease)
	l.expSmoother.SetReleaseTime(l.release)
}

// SetThreshold sets the limiter ceiling in dB.
func (l *Limiter[R]) SetThreshold(dB R) {
	if !isFinite(dB) {
		return
	}
	l.thresholdDB = dB
	l.linThreshold = gain.DbToLinear(dB)
}

// SetPreGain sets the input gain in dB, applied before envelope detection.
// With heavy pre-gain the limiter acts as a loudness maximiser.
func (l *Limiter[R]) SetPreGain(dB R) {
	if !isFinite(dB) {
		return
	}
	l.preGainDB = dB
	l.linPreGain = gain.DbToLinear(dB)
}

// updateLookahead derives the look-ahead from the attack time, quantised
// to a multiple of the peak-hold section count and clamped to the delay
// line capacity. The crossfade length equals the look-ahead for minimum
// overshoot during attack automation.
func (l *Limiter[R]) updateLookahead() {
	perStage := int(math.Round(float64(l.attack) / PeakHoldSections * float64(l.sampleRate)))
	if maxPerStage := (delay.SmoothCap - 1) / PeakHoldSections; perStage > maxPerStage {
		perStage = maxPerStage
	}
	l.lookahead = perStage * PeakHoldSections

	l.delayLeft.SetDelay(l.lookahead)
	l.delayLeft.SetInterpolationTime(l.lookahead)
	l.delayRight.SetDelay(l.lookahead)
	l.delayRight.SetInterpolationTime(l.lookahead)
}

// Lookahead returns the current look-ahead delay in samples. Output lags
// input by this amount.
func (l *Limiter[R]) Lookahead() int {
	return l.lookahead
}

// SampleRate returns the configured sample rate in Hz.
func (l *Limiter[R]) SampleRate() R {
	return l.sampleRate
}

// GetGainReduction returns the most recent block's maximum attenuation in
// dB (0 when the block passed unattenuated).
func (l *Limiter[R]) GetGainReduction() R {
	return l.gainReduction
}

// Reset returns all processing state to zero. Configuration and derived
// coefficients are kept.
func (l *Limiter[R]) Reset() {
	l.delayLeft.Reset()
	l.delayRight.Reset()
	l.peakHolder.Reset()
	l.expSmoother.Reset()
	l.preGain.Reset()
	l.threshold.Reset()
	l.gainReduction = 0
}

func (l *Limiter[R]) ensureScratch(n int) {
	if n <= len(l.scratchL) {
		return
	}
	l.scratchL = make([]R, n)
	l.scratchR = make([]R, n)
	l.env = make([]R, n)
	l.thr = make([]R, n)
}

// Process runs the limiter over a stereo block. Inputs are left untouched;
// aliasing y = x per channel is permitted. The block length is the minimum
// of the four buffer lengths.
func (l *Limiter[R]) Process(xL, xR, yL, yR []R) {
	n := min(min(len(xL), len(xR)), min(len(yL), len(yR)))
	l.ensureScratch(n)
	sxL := l.scratchL[:n]
	sxR := l.scratchR[:n]
	env := l.env[:n]
	thr := l.thr[:n]

	// Apply the smoothed pre-gain to copies of the inputs.
	for i := 0; i < n; i++ {
		sp := l.preGain.Next(l.linPreGain)
		sxL[i] = xL[i] * sp
		sxR[i] = xR[i] * sp
	}

	// Mono side-chain: channel-wise absolute maximum, then the peak-hold
	// envelope over the attack window.
	dsp.AbsMax(env, sxL, sxR)
	l.peakHolder.Process(env, env)

	// Clip the envelope at the smoothed threshold so signals below the
	// ceiling pass unaltered, and keep the threshold sequence for the
	// gain computation below.
	for i := 0; i < n; i++ {
		st := l.threshold.Next(l.linThreshold)
		thr[i] = st
		if env[i] < st {
			env[i] = st
		}
	}

	l.expSmoother.Process(env, env)

	// Attenuation gain: threshold over envelope. The clip above bounds it
	// to at most unity once the smoothers have settled.
	minGain := R(1)
	for i := 0; i < n; i++ {
		g := thr[i] / env[i]
		env[i] = g
		if g < minGain {
			minGain = g
		}
	}

	// Delay the audio path by the look-ahead so the attenuation is in
	// place before each peak, then apply the gain.
	l.delayLeft.Process(sxL, sxL)
	l.delayRight.Process(sxR, sxR)
	for i := 0; i < n; i++ {
		yL[i] = env[i] * sxL[i]
		yR[i] = env[i] * sxR[i]
	}

	l.gainReduction = 0
	if minGain < 1 {
		l.gainReduction = -gain.LinearToDb(minGain)
	}
}

func clampR[R dsp.Sample](v, lo, hi R) R {
	if !isFinite(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isFinite[R dsp.Sample](v R) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
