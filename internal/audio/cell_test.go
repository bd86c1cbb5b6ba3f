package audio

import (
	"math"
	"sync"
	"testing"
)

func TestFrequencyCellDefault(t *testing.T) {
	var c FrequencyCell
	if got := c.Load(); got != 0 {
		t.Fatalf("Load() = %v, want 0", got)
	}

	c.Store(440.5)
	if got := c.Load(); got != 440.5 {
		t.Fatalf("Load() = %v, want 440.5", got)
	}
}

// A reader must never see an older value than one it already saw, nor a
// value that was never written.
func TestFrequencyCellConcurrent(t *testing.T) {
	const writes = 200000

	var c FrequencyCell
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for v := 1; v <= writes; v++ {
			// Mixed mantissa bits make torn writes visible
			c.Store(float64(v) + 0.25)
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			last := 0.0
			for last < writes {
				got := c.Load()
				if got == 0 {
					continue
				}
				if got-math.Floor(got) != 0.25 || got < 1 || got > writes+0.25 {
					t.Errorf("torn read: %v", got)
					return
				}
				if got < last {
					t.Errorf("read went backwards: %v after %v", got, last)
					return
				}
				last = got
			}
		}()
	}

	wg.Wait()

	if got := c.Load(); got != writes+0.25 {
		t.Fatalf("final Load() = %v, want %v", got, writes+0.25)
	}
}
