package dsp

// Common audio constants used throughout the DSP packages.
const (
	// Attack/Release time ranges (in seconds)
	DefaultMinAttack  = 0.0001 // 0.1ms
	DefaultMaxAttack  = 1.0    // 1s
	DefaultMinRelease = 0.001  // 1ms
	DefaultMaxRelease = 5.0    // 5s

	// Fallback sample rate
	SampleRate48k = 48000.0

	// Default scratch buffer size
	DefaultBufferSize = 512

	// Cutoff of the one-pole used to smooth parameter changes
	ParamSmoothingHz = 20.0

	// Phase constant
	TwoPi = 6.283185307179586
)
