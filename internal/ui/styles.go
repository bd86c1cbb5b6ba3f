package ui

import (
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Cents thresholds for the needle colors
const (
	inTuneCents = 10.0
	closeCents  = 30.0
)

// Styles holds the lipgloss styles shared by the UI modes
type Styles struct {
	InTune lipgloss.Style
	Close  lipgloss.Style
	Off    lipgloss.Style
}

// NewStyles builds styles bound to a renderer, so color output follows the
// profile of the terminal the frames are written to
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		InTune: r.NewStyle().Foreground(lipgloss.Color("2")), // Green
		Close:  r.NewStyle().Foreground(lipgloss.Color("3")), // Yellow
		Off:    r.NewStyle().Foreground(lipgloss.Color("1")), // Red
	}
}

// ForCents returns the needle style for a deviation in cents
func (s Styles) ForCents(cents float64) lipgloss.Style {
	dist := math.Abs(cents)
	switch {
	case dist < inTuneCents:
		return s.InTune
	case dist < closeCents:
		return s.Close
	default:
		return s.Off
	}
}
