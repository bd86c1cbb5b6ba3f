package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Model drives a Mode from a bubbletea program, rendering one frame per tick
type Model struct {
	frames   *Frames
	interval time.Duration
	frame    string
	quitting bool
}

// NewModel creates a UI model ticking every interval
func NewModel(frames *Frames, interval time.Duration) Model {
	return Model{
		frames:   frames,
		interval: interval,
	}
}

// TickMsg represents a render tick
type TickMsg time.Time

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Init starts the tick loop
func (m Model) Init() tea.Cmd {
	return tick(m.interval)
}

// Update handles quit keys and render ticks
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case TickMsg:
		if m.quitting {
			return m, nil
		}
		m.frame = m.frames.Tick()
		return m, tick(m.interval)
	}

	return m, nil
}

// View renders the current frame
func (m Model) View() string {
	if m.quitting {
		return m.frame + "\n"
	}
	return m.frame
}
