// Package envelope provides envelope followers for dynamics processing.
package envelope

import (
	"math"

	"github.com/justyntemme/peaklimit/pkg/dsp"
)

// PeakHoldCascade approximates a moving maximum by cascading peak-hold
// sections in series. Each of the M sections holds a detected peak for
// 1/M of the full hold period, so a secondary peak appearing after the
// first section has released is still surfaced by the later sections.
// More sections reduce staircase artefacts at the cost of latency.
type PeakHoldCascade[R dsp.Sample] struct {
	sampleRate R
	holdTime   R // hold time in seconds across the whole cascade
	stages     int

	// Hold period of a single section in samples. Hold time variations
	// are quantised to steps of "stages" samples.
	holdSamples int

	timer  []int
	output []R
}

// NewPeakHoldCascade creates a cascade of the given number of sections.
func NewPeakHoldCascade[R dsp.Sample](stages int, sampleRate, holdTime R) *PeakHoldCascade[R] {
	if stages < 1 {
		stages = 1
	}
	p := &PeakHoldCascade[R]{
		stages: stages,
		timer:  make([]int, stages),
		output: make([]R, stages),
	}
	p.SetSampleRate(sampleRate)
	p.SetHoldTime(holdTime)
	return p
}

// Stages returns the number of cascaded sections.
func (p *PeakHoldCascade[R]) Stages() int {
	return p.stages
}

// SetSampleRate sets the sample rate in Hz and rebuilds the section hold
// period.
func (p *PeakHoldCascade[R]) SetSampleRate(sampleRate R) {
	if sampleRate <= 0 {
		sampleRate = dsp.SampleRate48k
	}
	p.sampleRate = sampleRate
	p.updateHoldSamples()
}

// SetHoldTime sets the hold time in seconds across the whole cascade.
func (p *PeakHoldCascade[R]) SetHoldTime(holdTime R) {
	if holdTime < 0 {
		holdTime = 0
	}
	p.holdTime = holdTime
	p.updateHoldSamples()
}

func (p *PeakHoldCascade[R]) updateHoldSamples() {
	p.holdSamples = int(math.Round(float64(p.holdTime) / float64(p.stages) * float64(p.sampleRate)))
}

// HoldSamplesPerStage returns the hold period of a single section in samples.
func (p *PeakHoldCascade[R]) HoldSamplesPerStage() int {
	return p.holdSamples
}

// Reset zeroes all section timers and held peaks.
func (p *PeakHoldCascade[R]) Reset() {
	for i := range p.timer {
		p.timer[i] = 0
	}
	dsp.Clear(p.output)
}

// Process writes the cascaded peak envelope of x into y. x and y may alias.
// A section latches the absolute input as a new peak when it is at least as
// large as the held value, or when the section's hold period has elapsed;
// otherwise the held value is kept and the timer advances.
func (p *PeakHoldCascade[R]) Process(x, y []R) {
	n := min(len(x), len(y))
	for i := 0; i < n; i++ {
		u := x[i]
		if u < 0 {
			u = -u
		}
		for stage := 0; stage < p.stages; stage++ {
			isNewPeak := u >= p.output[stage]
			isTimeout := p.timer[stage] >= p.holdSamples
			if isNewPeak || isTimeout {
				p.output[stage] = u
				p.timer[stage] = 0
			} else {
				p.timer[stage]++
			}
			u = p.output[stage]
		}
		y[i] = p.output[p.stages-1]
	}
}
