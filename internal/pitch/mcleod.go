package pitch

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// McLeodDetector implements the McLeod pitch method: it picks the first
// key maximum of the normalized square difference function (NSDF) that
// reaches the clarity threshold.
//
// A detector reuses its scratch buffers and is not safe for concurrent use.
type McLeodDetector struct {
	size    int
	padding int

	signal []float64 // zero padded window, len size+padding
	nsdf   []float64 // NSDF for lags 0..padding
}

// NewMcLeodDetector creates a detector for windows of size samples.
// Lags up to padding samples are analysed, which bounds the lowest
// detectable frequency to sampleRate/padding.
func NewMcLeodDetector(size, padding int) *McLeodDetector {
	return &McLeodDetector{
		size:    size,
		padding: padding,
		signal:  make([]float64, size+padding),
		nsdf:    make([]float64, padding+1),
	}
}

// Estimate implements Estimator
func (d *McLeodDetector) Estimate(window []float32, sampleRate int, powerThreshold, clarityThreshold float64) (Estimate, bool) {
	if len(window) > d.size {
		window = window[:d.size]
	}
	if len(window) < 3 || sampleRate <= 0 {
		return Estimate{}, false
	}

	if squareSum(window) < powerThreshold {
		return Estimate{}, false
	}

	nsdf := d.normalizedSquareDifference(window)

	for _, lag := range keyMaxima(nsdf) {
		if nsdf[lag] < clarityThreshold {
			continue
		}

		period, clarity := interpolatePeak(nsdf, lag)
		if period <= 0 {
			return Estimate{}, false
		}

		return Estimate{
			Frequency: float64(sampleRate) / period,
			Clarity:   math.Min(clarity, 1),
		}, true
	}

	return Estimate{}, false
}

// normalizedSquareDifference computes NSDF(t) = 2*r(t) / m(t) where r is the
// autocorrelation and m the sum of squared terms over the overlap.
func (d *McLeodDetector) normalizedSquareDifference(window []float32) []float64 {
	n := len(window)
	maxLag := d.padding
	if maxLag > n-1 {
		maxLag = n - 1
	}

	// Circular autocorrelation of the padded signal is exact for lags up to
	// the padding length.
	signal := d.signal[:n+d.padding]
	for i, s := range window {
		signal[i] = float64(s)
	}
	for i := n; i < len(signal); i++ {
		signal[i] = 0
	}

	spectrum := fft.FFTReal(signal)
	for i, c := range spectrum {
		mag := cmplx.Abs(c)
		spectrum[i] = complex(mag*mag, 0)
	}
	acf := fft.IFFT(spectrum)

	nsdf := d.nsdf[:maxLag+1]
	m := 0.0
	for _, s := range signal[:n] {
		m += 2 * s * s
	}

	for lag := 0; lag <= maxLag; lag++ {
		if lag > 0 {
			head := signal[lag-1]
			tail := signal[n-lag]
			m -= head*head + tail*tail
		}

		if m <= 1e-12 {
			nsdf[lag] = 0
			continue
		}
		nsdf[lag] = 2 * real(acf[lag]) / m
	}

	return nsdf
}

// keyMaxima returns the highest local maximum of every positive lobe of the
// NSDF, skipping the lobe around lag zero.
func keyMaxima(nsdf []float64) []int {
	var peaks []int

	pos := 0
	last := len(nsdf) - 1

	// Skip the initial positive lobe, then the negative region after it
	for pos < last && nsdf[pos] > 0 {
		pos++
	}
	for pos < last && nsdf[pos] <= 0 {
		pos++
	}
	if pos == 0 {
		pos = 1
	}

	best := -1
	for pos < last {
		if nsdf[pos] > nsdf[pos-1] && nsdf[pos] >= nsdf[pos+1] {
			if best < 0 || nsdf[pos] > nsdf[best] {
				best = pos
			}
		}

		pos++

		// Negative zero crossing closes the lobe
		if pos < last && nsdf[pos] <= 0 {
			if best >= 0 {
				peaks = append(peaks, best)
				best = -1
			}
			for pos < last && nsdf[pos] <= 0 {
				pos++
			}
		}
	}

	if best >= 0 {
		peaks = append(peaks, best)
	}

	return peaks
}

// interpolatePeak fits a parabola through the peak and its neighbours and
// returns the refined lag and height.
func interpolatePeak(values []float64, i int) (float64, float64) {
	if i <= 0 || i >= len(values)-1 {
		return float64(i), values[i]
	}

	prev, cur, next := values[i-1], values[i], values[i+1]
	denom := prev - 2*cur + next
	if denom == 0 {
		return float64(i), cur
	}

	delta := 0.5 * (prev - next) / denom
	return float64(i) + delta, cur - 0.25*(prev-next)*delta
}
