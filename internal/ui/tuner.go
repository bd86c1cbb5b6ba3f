package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/0xlemi/pitchbar/internal/pitch"
)

const (
	meterFill   = "."
	meterMarker = "v"
	labelWidth  = 5

	// Cents covered by one meter cell
	centsPerStep = 2.0
)

// Tuner shows the nearest note with a needle that leans left when flat and
// right when sharp
type Tuner struct {
	frequency     float64
	width         int
	showFrequency bool
	styles        Styles
}

// NewTuner creates a tuner whose meter has width cells on each side of the
// note label
func NewTuner(width int, showFrequency bool, styles Styles) *Tuner {
	return &Tuner{
		width:         width,
		showFrequency: showFrequency,
		styles:        styles,
	}
}

// Update stores the latest frequency
func (t *Tuner) Update(freq float64) {
	t.frequency = freq
}

// Render draws the meter. It returns an empty frame until a frequency is
// known and an error when the frequency has no nearby note.
func (t *Tuner) Render() (string, error) {
	if t.frequency == 0 {
		return "", nil
	}

	note, err := pitch.FindNote(t.frequency)
	if err != nil {
		return "", err
	}
	cents, err := pitch.CentsBetween(note.Frequency, t.frequency)
	if err != nil {
		return "", err
	}

	line := t.meter(note.Name, cents)
	if t.showFrequency {
		line += fmt.Sprintf(" | %.1f Hz", t.frequency)
	}
	return line, nil
}

// meter lays out [left side][label][right side][cents]. Each side is
// width+1 cells so the line keeps the same width whichever side holds the
// marker.
func (t *Tuner) meter(label string, cents float64) string {
	steps := int(math.Floor(math.Abs(cents) / centsPerStep))
	steps = min(max(steps, 0), t.width)

	style := t.styles.ForCents(cents)
	marker := style.Render(meterMarker)
	empty := strings.Repeat(meterFill, t.width+1)

	var left, right string
	if cents < 0 {
		left = strings.Repeat(meterFill, t.width-steps) + marker + strings.Repeat(meterFill, steps)
		right = empty
	} else {
		left = empty
		right = strings.Repeat(meterFill, steps) + marker + strings.Repeat(meterFill, t.width-steps)
	}

	var b strings.Builder
	b.WriteString(left)
	b.WriteString(style.Width(labelWidth).Align(lipgloss.Center).Render(label))
	b.WriteString(right)
	fmt.Fprintf(&b, " %3d cents", int(math.Round(cents)))

	return b.String()
}
