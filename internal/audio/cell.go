package audio

import (
	"math"
	"sync/atomic"
)

// FrequencyCell holds the most recently published frequency.
//
// The audio callback stores into it and the render loop loads from it.
// Neither side ever waits: the value lives in a single atomic word, so a
// load observes either the previous or the latest store, never a mix.
// The zero value holds 0 Hz and is ready to use.
type FrequencyCell struct {
	bits atomic.Uint64
}

// Store publishes freq, replacing any unread value
func (c *FrequencyCell) Store(freq float64) {
	c.bits.Store(math.Float64bits(freq))
}

// Load returns the latest published frequency, or 0 if none was published
func (c *FrequencyCell) Load() float64 {
	return math.Float64frombits(c.bits.Load())
}
