package pitch

import (
	"math"
	"math/cmplx"
	"sort"

	"github.com/mjibson/go-dsp/fft"
)

// SpectralDetector implements pitch detection using FFT peak picking
type SpectralDetector struct {
	windowSize    int
	MinFrequency  float64 // Lowest frequency to detect (Hz)
	MaxFrequency  float64 // Highest frequency to detect (Hz)
	PeakThreshold float64 // Minimum peak height as fraction of highest peak

	hann     []float64
	windowed []float64
}

// NewSpectralDetector creates a new FFT-based pitch detector
func NewSpectralDetector(windowSize int) *SpectralDetector {
	return &SpectralDetector{
		windowSize:    windowSize,
		MinFrequency:  50.0, // Below G1
		MaxFrequency:  2000.0,
		PeakThreshold: 0.2,
		hann:          hannWindow(windowSize),
		windowed:      make([]float64, windowSize),
	}
}

// Estimate implements Estimator. Clarity is the share of in-band spectral
// energy concentrated around the strongest peak.
func (d *SpectralDetector) Estimate(window []float32, sampleRate int, powerThreshold, clarityThreshold float64) (Estimate, bool) {
	if len(window) > d.windowSize {
		window = window[:d.windowSize]
	}
	if len(window) < 4 || sampleRate <= 0 {
		return Estimate{}, false
	}

	if squareSum(window) < powerThreshold {
		return Estimate{}, false
	}

	coeffs := d.hann
	if len(window) != len(coeffs) {
		coeffs = hannWindow(len(window))
	}
	windowed := d.windowed[:len(window)]
	for i, sample := range window {
		windowed[i] = float64(sample) * coeffs[i]
	}

	spectrum := fft.FFTReal(windowed)

	peak, clarity, ok := d.findFundamental(spectrum, sampleRate)
	if !ok || clarity < clarityThreshold {
		return Estimate{}, false
	}

	return Estimate{Frequency: peak.Frequency, Clarity: clarity}, true
}

// hannWindow returns symmetric Hann window coefficients
func hannWindow(n int) []float64 {
	coeffs := make([]float64, n)
	if n == 1 {
		coeffs[0] = 1
		return coeffs
	}
	for i := range coeffs {
		coeffs[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return coeffs
}

// Peak represents a peak in the frequency spectrum
type Peak struct {
	Bin       int
	Magnitude float64
	Frequency float64
}

// findFundamental returns the strongest spectral peak in range and the
// fraction of in-band energy within two bins of it.
func (d *SpectralDetector) findFundamental(spectrum []complex128, sampleRate int) (Peak, float64, bool) {
	// Only the first half of the spectrum carries information (Nyquist)
	half := spectrum[:len(spectrum)/2]
	binSizeHz := float64(sampleRate) / float64(len(spectrum))

	minBin := int(d.MinFrequency / binSizeHz)
	if minBin < 1 {
		minBin = 1 // Avoid DC component
	}
	maxBin := int(d.MaxFrequency / binSizeHz)
	if maxBin >= len(half)-1 {
		maxBin = len(half) - 2
	}
	if maxBin <= minBin {
		return Peak{}, 0, false
	}

	mags := make([]float64, len(half))
	maxMagnitude := 0.0
	totalEnergy := 0.0
	for i := range half {
		mags[i] = cmplx.Abs(half[i])
		if i >= minBin && i <= maxBin {
			totalEnergy += mags[i] * mags[i]
			if mags[i] > maxMagnitude {
				maxMagnitude = mags[i]
			}
		}
	}
	if maxMagnitude == 0 || totalEnergy == 0 {
		return Peak{}, 0, false
	}

	var peaks []Peak
	for i := minBin; i <= maxBin; i++ {
		magnitude := mags[i]
		if magnitude <= mags[i-1] || magnitude <= mags[i+1] || magnitude < maxMagnitude*d.PeakThreshold {
			continue
		}

		peaks = append(peaks, Peak{
			Bin:       i,
			Magnitude: magnitude,
			Frequency: (float64(i) + logParabolicDelta(mags[i-1], magnitude, mags[i+1])) * binSizeHz,
		})
	}
	if len(peaks) == 0 {
		return Peak{}, 0, false
	}

	// Sort peaks by magnitude (descending)
	sort.Slice(peaks, func(i, j int) bool {
		return peaks[i].Magnitude > peaks[j].Magnitude
	})
	best := peaks[0]

	lobeEnergy := 0.0
	for i := max(best.Bin-2, minBin); i <= min(best.Bin+2, maxBin); i++ {
		lobeEnergy += mags[i] * mags[i]
	}

	return best, lobeEnergy / totalEnergy, true
}

// logParabolicDelta interpolates the peak offset on log magnitudes, which
// is close to exact for the Gaussian-like main lobe of a Hann window.
func logParabolicDelta(prev, cur, next float64) float64 {
	if prev <= 0 || next <= 0 {
		return 0
	}

	a, b, c := math.Log(prev), math.Log(cur), math.Log(next)
	denom := a - 2*b + c
	if denom == 0 {
		return 0
	}
	return 0.5 * (a - c) / denom
}
