package pitch

import (
	"fmt"
	"math"

	"github.com/0xlemi/pitchbar/internal/notes"
)

// FindNote returns the table entry closest to freq.
//
// The table is walked in ascending order and the scan stops as soon as the
// squared distance stops shrinking, so ties resolve to the lower note.
// Frequencies at or above the highest entry fail with ErrOutOfRange.
func FindNote(freq float64) (notes.Entry, error) {
	return findIn(notes.Table(), freq)
}

func findIn(table []notes.Entry, freq float64) (notes.Entry, error) {
	if !validFrequency(freq) {
		return notes.Entry{}, fmt.Errorf("%w: %v Hz", ErrInvalidFrequency, freq)
	}

	best := math.MaxFloat64
	for i, entry := range table {
		diff := entry.Frequency - freq
		dist := diff * diff
		if dist < best {
			best = dist
		} else if i != 0 {
			return table[i-1], nil
		}
	}

	return notes.Entry{}, fmt.Errorf("%w: %.2f Hz", ErrOutOfRange, freq)
}

// CentsBetween returns the interval from ref to query in cents.
// Positive values mean query is sharp of ref, negative values flat.
func CentsBetween(ref, query float64) (float64, error) {
	if !validFrequency(ref) || !validFrequency(query) {
		return 0, fmt.Errorf("%w: cents between %v Hz and %v Hz", ErrInvalidFrequency, ref, query)
	}

	return 1200 * math.Log2(query/ref), nil
}

func validFrequency(freq float64) bool {
	return freq > 0 && !math.IsInf(freq, 0) && !math.IsNaN(freq)
}
