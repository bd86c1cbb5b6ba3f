package ui

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/0xlemi/pitchbar/internal/notes"
	"github.com/0xlemi/pitchbar/internal/pitch"
)

// Placeholders for the detected note
const (
	noNote      = "-" // nothing detected yet
	unknownNote = "?" // frequency outside the note table
)

const noteColumn = 4

// PitchTest is a game: play the target note and hold it for holdFrames
// ticks to score a point.
//
// Notes match exactly, so a C# does not count for a C. Any tick off target
// resets the hold.
type PitchTest struct {
	current    string
	target     string
	score      int
	hold       int
	holdFrames int
	rng        *rand.Rand
	styles     Styles
}

// NewPitchTest starts a game with a random target drawn from rng
func NewPitchTest(holdFrames int, rng *rand.Rand, styles Styles) *PitchTest {
	p := &PitchTest{
		current:    noNote,
		holdFrames: holdFrames,
		rng:        rng,
		styles:     styles,
	}
	p.target = p.pickTarget()
	return p
}

// PracticeNotes returns the notes a target is drawn from
func PracticeNotes() []string {
	return notes.Names
}

func (p *PitchTest) pickTarget() string {
	names := PracticeNotes()
	return names[p.rng.IntN(len(names))]
}

// Update detects the current note and advances the hold and score
func (p *PitchTest) Update(freq float64) {
	p.current = detectNote(freq)

	if p.current != p.target {
		p.hold = 0
		return
	}

	p.hold++
	if p.hold >= p.holdFrames {
		p.score++
		p.hold = 0
		p.target = p.pickTarget()
	}
}

func detectNote(freq float64) string {
	if freq <= 0 {
		return noNote
	}

	note, err := pitch.FindNote(freq)
	if err != nil {
		return unknownNote
	}
	return note.Name
}

// Render shows target, current note and score in fixed columns
func (p *PitchTest) Render() (string, error) {
	current := lipgloss.PlaceHorizontal(noteColumn, lipgloss.Center, p.current)
	if p.hold > 0 {
		current = p.styles.InTune.Render(current)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "target: %s | current: %s | score: %-4d",
		lipgloss.PlaceHorizontal(noteColumn, lipgloss.Center, p.target), current, p.score)
	if p.hold > 0 {
		fmt.Fprintf(&b, " | hold %3d%%", p.hold*100/p.holdFrames)
	}

	return b.String(), nil
}

// Target returns the note to play
func (p *PitchTest) Target() string { return p.target }

// Current returns the detected note
func (p *PitchTest) Current() string { return p.current }

// Score returns the number of notes matched so far
func (p *PitchTest) Score() int { return p.score }

// Hold returns the consecutive matching ticks so far
func (p *PitchTest) Hold() int { return p.hold }
