package audio

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"
)

// ToneCapturer is a synthetic source that delivers a pure sine wave in
// real time, for running without a microphone.
type ToneCapturer struct {
	frequency  float64
	amplitude  float64
	sampleRate int
	blockSize  int
	onSamples  SampleFunc

	mu          sync.Mutex
	isCapturing bool
	cancel      context.CancelFunc
	done        chan struct{}
}

// NewToneCapturer creates a tone source delivering blockSize samples per
// callback at the given sample rate
func NewToneCapturer(frequency, amplitude float64, sampleRate, blockSize int, onSamples SampleFunc) *ToneCapturer {
	return &ToneCapturer{
		frequency:  frequency,
		amplitude:  amplitude,
		sampleRate: sampleRate,
		blockSize:  blockSize,
		onSamples:  onSamples,
	}
}

// Name returns a description of the tone
func (c *ToneCapturer) Name() string {
	return fmt.Sprintf("sine %.2f Hz", c.frequency)
}

// Start begins delivering blocks on a background goroutine
func (c *ToneCapturer) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isCapturing {
		return ErrAlreadyCapturing
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	c.isCapturing = true

	go c.run(ctx, c.done)
	return nil
}

// Stop ends delivery and waits for the goroutine to exit
func (c *ToneCapturer) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isCapturing {
		return ErrNotCapturing
	}

	c.cancel()
	<-c.done
	c.isCapturing = false
	return nil
}

// IsCapturing returns true if currently capturing audio
func (c *ToneCapturer) IsCapturing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isCapturing
}

func (c *ToneCapturer) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	interval := time.Duration(float64(time.Second) * float64(c.blockSize) / float64(c.sampleRate))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	block := make([]float32, c.blockSize)
	offset := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			offset = Sine(block, c.frequency, c.amplitude, c.sampleRate, offset)
			c.onSamples(block)
		}
	}
}

// Sine fills buf with a sine wave starting at sample offset and returns
// the offset following the last written sample
func Sine(buf []float32, frequency, amplitude float64, sampleRate, offset int) int {
	step := 2 * math.Pi * frequency / float64(sampleRate)
	for i := range buf {
		buf[i] = float32(amplitude * math.Sin(step*float64(offset+i)))
	}
	return offset + len(buf)
}
