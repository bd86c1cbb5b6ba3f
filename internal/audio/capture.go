package audio

import (
	"errors"

	"github.com/0xlemi/pitchbar/internal/pitch"
)

// Errors
var (
	ErrAlreadyCapturing = errors.New("audio capture already started")
	ErrNotCapturing     = errors.New("audio capture not started")
	ErrNoSuchInput      = errors.New("no such input")
	ErrNoDefaultInput   = errors.New("couldn't find the default input")
)

// SampleFunc receives each block of mono samples delivered by a Capturer.
// It runs on the capture thread and must not block.
type SampleFunc func(samples []float32)

// Capturer defines the interface for audio capture
type Capturer interface {
	// Start begins audio capture
	Start() error

	// Stop ends audio capture
	Stop() error

	// IsCapturing returns true if currently capturing audio
	IsCapturing() bool

	// Name returns a human readable name for the source
	Name() string
}

// AnalysisConfig configures the capture buffer controller
type AnalysisConfig struct {
	WindowSize       int     // Samples per analysis window
	SampleRate       int     // Stream sample rate (Hz)
	PowerThreshold   float64 // Minimum square sum for an estimate
	ClarityThreshold float64 // Minimum estimator confidence (0.0-1.0)
}

// Controller accumulates sample blocks into fixed, non-overlapping windows
// and runs the estimator once per full window.
//
// A Controller is owned by the audio callback: Feed never locks or logs, its
// window buffer never grows, and it is not safe for concurrent use.
type Controller struct {
	cfg       AnalysisConfig
	estimator pitch.Estimator
	cell      *FrequencyCell
	buffer    []float32
}

// NewController creates a controller that publishes estimates into cell
func NewController(cfg AnalysisConfig, estimator pitch.Estimator, cell *FrequencyCell) *Controller {
	return &Controller{
		cfg:       cfg,
		estimator: estimator,
		cell:      cell,
		buffer:    make([]float32, 0, cfg.WindowSize),
	}
}

// Feed appends samples to the window. When the window fills, the estimator
// runs over exactly WindowSize samples and the window is cleared; samples
// past the window boundary in the same block are dropped. A successful
// estimate is published to the frequency cell and returned.
func (c *Controller) Feed(samples []float32) (pitch.Estimate, bool) {
	room := c.cfg.WindowSize - len(c.buffer)
	if len(samples) > room {
		samples = samples[:room]
	}
	c.buffer = append(c.buffer, samples...)

	if len(c.buffer) < c.cfg.WindowSize {
		return pitch.Estimate{}, false
	}

	est, ok := c.estimator.Estimate(c.buffer, c.cfg.SampleRate, c.cfg.PowerThreshold, c.cfg.ClarityThreshold)
	c.buffer = c.buffer[:0]

	if !ok {
		return pitch.Estimate{}, false
	}

	c.cell.Store(est.Frequency)
	return est, true
}

// Buffered returns the number of samples waiting for the next window
func (c *Controller) Buffered() int {
	return len(c.buffer)
}

// Handle adapts Feed to a SampleFunc
func (c *Controller) Handle(samples []float32) {
	c.Feed(samples)
}
