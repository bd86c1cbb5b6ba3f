package audio

import (
	"math"
	"testing"

	"github.com/0xlemi/pitchbar/internal/pitch"
)

// fakeEstimator records calls and returns a fixed result
type fakeEstimator struct {
	calls   int
	lastLen int
	result  pitch.Estimate
	ok      bool

	sampleRate int
	power      float64
	clarity    float64
}

func (f *fakeEstimator) Estimate(window []float32, sampleRate int, power, clarity float64) (pitch.Estimate, bool) {
	f.calls++
	f.lastLen = len(window)
	f.sampleRate = sampleRate
	f.power = power
	f.clarity = clarity
	return f.result, f.ok
}

var testConfig = AnalysisConfig{
	WindowSize:       4096,
	SampleRate:       44100,
	PowerThreshold:   1.0,
	ClarityThreshold: 0.7,
}

func TestFeedPartialWindow(t *testing.T) {
	est := &fakeEstimator{result: pitch.Estimate{Frequency: 440}, ok: true}
	var cell FrequencyCell
	c := NewController(testConfig, est, &cell)

	for i := 0; i < 3; i++ {
		if _, ok := c.Feed(make([]float32, 1000)); ok {
			t.Fatalf("feed %d produced an estimate before the window filled", i)
		}
	}

	if est.calls != 0 {
		t.Fatalf("estimator called %d times, want 0", est.calls)
	}
	if got := c.Buffered(); got != 3000 {
		t.Fatalf("Buffered() = %d, want 3000", got)
	}
	if got := cell.Load(); got != 0 {
		t.Fatalf("cell = %v, want 0", got)
	}
}

func TestFeedExactWindow(t *testing.T) {
	est := &fakeEstimator{result: pitch.Estimate{Frequency: 440, Clarity: 0.9}, ok: true}
	var cell FrequencyCell
	c := NewController(testConfig, est, &cell)

	got, ok := c.Feed(make([]float32, 4096))
	if !ok || got.Frequency != 440 {
		t.Fatalf("Feed() = %+v, %v; want 440 Hz", got, ok)
	}
	if est.calls != 1 || est.lastLen != 4096 {
		t.Fatalf("estimator calls=%d len=%d, want 1 call over 4096", est.calls, est.lastLen)
	}
	if est.sampleRate != 44100 || est.power != 1.0 || est.clarity != 0.7 {
		t.Fatalf("estimator got rate=%d power=%v clarity=%v", est.sampleRate, est.power, est.clarity)
	}
	if c.Buffered() != 0 {
		t.Fatalf("Buffered() = %d after full window, want 0", c.Buffered())
	}
	if cell.Load() != 440 {
		t.Fatalf("cell = %v, want 440", cell.Load())
	}
}

func TestFeedTruncatesOverflow(t *testing.T) {
	est := &fakeEstimator{result: pitch.Estimate{Frequency: 220}, ok: true}
	var cell FrequencyCell
	c := NewController(testConfig, est, &cell)

	c.Feed(make([]float32, 4000))
	c.Feed(make([]float32, 512))

	if est.calls != 1 || est.lastLen != 4096 {
		t.Fatalf("estimator calls=%d len=%d, want 1 call over 4096", est.calls, est.lastLen)
	}
	if c.Buffered() != 0 {
		t.Fatalf("Buffered() = %d, want 0 (excess dropped)", c.Buffered())
	}

	c.Feed(make([]float32, 10000))
	if est.calls != 2 || est.lastLen != 4096 {
		t.Fatalf("estimator calls=%d len=%d, want 2 calls over 4096", est.calls, est.lastLen)
	}
}

func TestFeedKeepsPreviousOnMiss(t *testing.T) {
	est := &fakeEstimator{result: pitch.Estimate{Frequency: 330}, ok: true}
	var cell FrequencyCell
	c := NewController(testConfig, est, &cell)

	c.Feed(make([]float32, 4096))
	if cell.Load() != 330 {
		t.Fatalf("cell = %v, want 330", cell.Load())
	}

	est.ok = false
	est.result = pitch.Estimate{Frequency: 999}
	if _, ok := c.Feed(make([]float32, 4096)); ok {
		t.Fatal("Feed() reported an estimate the estimator rejected")
	}
	if cell.Load() != 330 {
		t.Fatalf("cell = %v after rejected window, want 330", cell.Load())
	}
	if c.Buffered() != 0 {
		t.Fatalf("Buffered() = %d after rejected window, want 0", c.Buffered())
	}
}

func TestFeedSineEndToEnd(t *testing.T) {
	var cell FrequencyCell
	c := NewController(testConfig, pitch.NewMcLeodDetector(4096, 2048), &cell)

	// Deliver in uneven blocks the way a sound card would
	block := make([]float32, 441)
	offset := 0
	for i := 0; i < 9; i++ {
		offset = Sine(block, 440, 0.5, 44100, offset)
		c.Feed(block)
	}
	Sine(block[:127], 440, 0.5, 44100, offset)
	c.Feed(block[:127])

	if got := cell.Load(); math.Abs(got-440) > 1 {
		t.Fatalf("cell = %.3f Hz, want about 440", got)
	}
}
