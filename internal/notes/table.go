package notes

import "math"

// Reference pitch (A4)
const (
	ReferenceFrequency = 440.0
	referenceOctave    = 4
	referenceIndex     = 9 // A is 9 semitones above C
)

// Range covered by the table, C0 through B8
const (
	lowestOctave  = 0
	highestOctave = 8
)

// Entry is a single note of the equal tempered scale
type Entry struct {
	Name      string  // e.g., "A", "A#", "B"
	Octave    int     // e.g., 4 for middle C (C4)
	Frequency float64 // Frequency in Hz
}

// All note names in chromatic order
var Names = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var table = generate()

func generate() []Entry {
	count := (highestOctave - lowestOctave + 1) * len(Names)
	entries := make([]Entry, 0, count)

	for octave := lowestOctave; octave <= highestOctave; octave++ {
		for i, name := range Names {
			// Semitones away from A4
			semitones := (octave-referenceOctave)*len(Names) + i - referenceIndex
			entries = append(entries, Entry{
				Name:      name,
				Octave:    octave,
				Frequency: ReferenceFrequency * math.Pow(2, float64(semitones)/12),
			})
		}
	}

	return entries
}

// Table returns the note table, sorted strictly ascending by frequency.
// The returned slice is shared and must not be modified.
func Table() []Entry {
	return table
}

// Lowest returns the lowest note in the table
func Lowest() Entry {
	return table[0]
}

// Highest returns the highest note in the table
func Highest() Entry {
	return table[len(table)-1]
}
