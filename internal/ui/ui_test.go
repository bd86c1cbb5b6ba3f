package ui

import (
	"io"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/0xlemi/pitchbar/internal/notes"
)

// ANSI foreground sequences for the needle colors
const (
	green  = "\x1b[32m"
	yellow = "\x1b[33m"
	red    = "\x1b[31m"
)

// testStyles forces a 16 color profile so colors survive a non-tty writer
func testStyles() Styles {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI)
	return NewStyles(r)
}

// freqOf returns the frequency of name in octave 4
func freqOf(name string) float64 {
	for _, e := range notes.Table() {
		if e.Name == name && e.Octave == 4 {
			return e.Frequency
		}
	}
	return math.NaN()
}

// staticSource always returns the same frequency
type staticSource float64

func (s staticSource) Load() float64 { return float64(s) }
