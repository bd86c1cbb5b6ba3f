package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every runtime setting. Values come from command line flags;
// nothing is persisted.
type Config struct {
	// Audio input
	Input      string  // Input device name, empty for the default input
	Tone       float64 // Synthetic sine frequency; replaces the microphone when > 0
	SampleRate int     // Stream sample rate (Hz)

	// Analysis
	Detector         string  // "mcleod" or "spectral"
	WindowSize       int     // Samples per analysis window
	Padding          int     // Estimator padding, 0 means WindowSize/2
	PowerThreshold   float64 // Minimum square sum for an estimate
	ClarityThreshold float64 // Minimum estimator confidence

	// Display
	FrameRate     int  // Render ticks per second
	MeterWidth    int  // Tuner meter cells per side
	HoldFrames    int  // Ticks a match must hold to score in the pitch test
	ShowFrequency bool // Append the raw frequency to the tuner line
	Plain         bool // Plain line writer instead of the interactive program

	// Logging
	Debug   bool
	LogFile string
}

// Default returns a config with sensible defaults
func Default() Config {
	return Config{
		SampleRate:       44100,
		Detector:         "mcleod",
		WindowSize:       4096,
		PowerThreshold:   1.0,
		ClarityThreshold: 0.7,
		FrameRate:        60,
		MeterWidth:       25,
		HoldFrames:       60,
	}
}

// BindFlags registers a flag for every field, using the current values as
// defaults
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.Input, "input", "i", c.Input, "input device to use (defaults to the host's default input)")
	fs.Float64Var(&c.Tone, "tone", c.Tone, "analyse a synthetic sine of this frequency instead of the microphone")
	fs.IntVar(&c.SampleRate, "sample-rate", c.SampleRate, "stream sample rate in Hz")

	fs.StringVar(&c.Detector, "detector", c.Detector, "pitch detector: mcleod or spectral")
	fs.IntVar(&c.WindowSize, "window", c.WindowSize, "samples per analysis window")
	fs.IntVar(&c.Padding, "padding", c.Padding, "estimator padding in samples (0 = window/2)")
	fs.Float64Var(&c.PowerThreshold, "power", c.PowerThreshold, "minimum window power for an estimate")
	fs.Float64Var(&c.ClarityThreshold, "clarity", c.ClarityThreshold, "minimum estimate clarity (0-1)")

	fs.IntVar(&c.FrameRate, "fps", c.FrameRate, "display frames per second")
	fs.IntVar(&c.MeterWidth, "meter-width", c.MeterWidth, "tuner meter width per side")
	fs.IntVar(&c.HoldFrames, "hold-frames", c.HoldFrames, "frames a note must be held to score in pitch-test")
	fs.BoolVar(&c.ShowFrequency, "show-freq", c.ShowFrequency, "show the detected frequency next to the tuner")
	fs.BoolVar(&c.Plain, "plain", c.Plain, "write plain lines instead of running the interactive display")

	fs.BoolVar(&c.Debug, "debug", c.Debug, "enable debug logging")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "write logs to this file instead of stderr")
}

// Validate checks the config for values the pipeline cannot run with
func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidConfig, c.SampleRate)
	case c.WindowSize < 64:
		return fmt.Errorf("%w: window must be at least 64 samples, got %d", ErrInvalidConfig, c.WindowSize)
	case c.Padding < 0 || c.Padding > c.WindowSize:
		return fmt.Errorf("%w: padding must be between 0 and the window size, got %d", ErrInvalidConfig, c.Padding)
	case c.PowerThreshold < 0:
		return fmt.Errorf("%w: power threshold must not be negative, got %v", ErrInvalidConfig, c.PowerThreshold)
	case c.ClarityThreshold < 0 || c.ClarityThreshold > 1:
		return fmt.Errorf("%w: clarity threshold must be between 0 and 1, got %v", ErrInvalidConfig, c.ClarityThreshold)
	case c.FrameRate <= 0 || c.FrameRate > 1000:
		return fmt.Errorf("%w: fps must be between 1 and 1000, got %d", ErrInvalidConfig, c.FrameRate)
	case c.MeterWidth < 1:
		return fmt.Errorf("%w: meter width must be positive, got %d", ErrInvalidConfig, c.MeterWidth)
	case c.HoldFrames < 1:
		return fmt.Errorf("%w: hold frames must be positive, got %d", ErrInvalidConfig, c.HoldFrames)
	case c.Tone < 0:
		return fmt.Errorf("%w: tone frequency must not be negative, got %v", ErrInvalidConfig, c.Tone)
	}
	return nil
}

// EstimatorPadding returns the padding passed to the estimator
func (c Config) EstimatorPadding() int {
	if c.Padding == 0 {
		return c.WindowSize / 2
	}
	return c.Padding
}

// FrameInterval returns the time between render ticks
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}
