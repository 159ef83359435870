// Package analysis provides level metering and spectral measurement of
// audio signals. Nothing here runs on the audio path; meters take blocks
// after the fact.
package analysis

import (
	"math"
	"sync"

	"github.com/justyntemme/peaklimit/pkg/dsp"
)

// PeakMeter measures peak signal levels
type PeakMeter struct {
	peak       float64
	decayRate  float64
	sampleRate float64
	mu         sync.Mutex
}

// NewPeakMeter creates a new peak meter
func NewPeakMeter(sampleRate float64) *PeakMeter {
	return &PeakMeter{
		sampleRate: sampleRate,
		decayRate:  20.0, // 20 dB/second
	}
}

// SetDecayRate sets the peak decay rate in dB/second
func (pm *PeakMeter) SetDecayRate(dbPerSecond float64) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.decayRate = dbPerSecond
}

// Process updates the peak meter with new samples
func (pm *PeakMeter) Process(samples []float64) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	blockPeak := dsp.Peak(samples)

	// Decay the held peak across the block, then latch a higher one
	decayPerSample := pm.decayRate / pm.sampleRate / 20.0 * math.Log(10)
	pm.peak *= math.Exp(-decayPerSample * float64(len(samples)))
	if blockPeak > pm.peak {
		pm.peak = blockPeak
	}
}

// GetPeak returns the current peak level (linear)
func (pm *PeakMeter) GetPeak() float64 {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.peak
}

// GetPeakDB returns the current peak level in decibels
func (pm *PeakMeter) GetPeakDB() float64 {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.peak <= 0 {
		return -200.0
	}
	return 20.0 * math.Log10(pm.peak)
}

// Reset clears the held peak
func (pm *PeakMeter) Reset() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.peak = 0
}

// RMSMeter measures RMS signal levels over a sliding window
type RMSMeter struct {
	window    []float64
	index     int
	sum       float64
	windowLen int
	mu        sync.Mutex
}

// NewRMSMeter creates an RMS meter with the given window length in samples
func NewRMSMeter(windowLen int) *RMSMeter {
	if windowLen < 1 {
		windowLen = 1
	}
	return &RMSMeter{
		window:    make([]float64, windowLen),
		windowLen: windowLen,
	}
}

// Process updates the RMS meter with new samples
func (rm *RMSMeter) Process(samples []float64) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	for _, sample := range samples {
		squared := sample * sample
		rm.sum += squared - rm.window[rm.index]
		rm.window[rm.index] = squared
		rm.index = (rm.index + 1) % rm.windowLen
	}
}

// GetRMS returns the current RMS level (linear)
func (rm *RMSMeter) GetRMS() float64 {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	mean := rm.sum / float64(rm.windowLen)
	if mean < 0 {
		mean = 0 // rounding in the running sum
	}
	return math.Sqrt(mean)
}

// GetRMSDB returns the current RMS level in decibels
func (rm *RMSMeter) GetRMSDB() float64 {
	rms := rm.GetRMS()
	if rms <= 0 {
		return -200.0
	}
	return 20.0 * math.Log10(rms)
}

// Reset clears the meter window
func (rm *RMSMeter) Reset() {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	for i := range rm.window {
		rm.window[i] = 0
	}
	rm.sum = 0
	rm.index = 0
}
