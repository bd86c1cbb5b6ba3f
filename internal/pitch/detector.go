package pitch

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrOutOfRange       = errors.New("frequency outside note table")
	ErrInvalidFrequency = errors.New("frequency must be positive and finite")
	ErrUnknownDetector  = errors.New("unknown pitch detector")
)

// Estimate is the result of analysing one window of samples
type Estimate struct {
	Frequency float64 // Fundamental frequency in Hz
	Clarity   float64 // Confidence of the estimate (0.0-1.0)
}

// Estimator defines the interface for pitch estimation.
//
// Estimate analyses a window of mono samples and reports false when the
// window is too quiet (power below powerThreshold) or too noisy (clarity
// below clarityThreshold).
type Estimator interface {
	Estimate(window []float32, sampleRate int, powerThreshold, clarityThreshold float64) (Estimate, bool)
}

// Detector names accepted by NewEstimator
const (
	DetectorMcLeod   = "mcleod"
	DetectorSpectral = "spectral"
)

// NewEstimator creates the named estimator for windows of size samples
func NewEstimator(name string, size, padding int) (Estimator, error) {
	switch name {
	case DetectorMcLeod:
		return NewMcLeodDetector(size, padding), nil
	case DetectorSpectral:
		return NewSpectralDetector(size), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDetector, name)
	}
}

// squareSum returns the signal power used for the power threshold
func squareSum(samples []float32) float64 {
	sum := 0.0
	for _, s := range samples {
		v := float64(s)
		sum += v * v
	}
	return sum
}
