package ui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/x/ansi"
)

// Loop writes one frame per tick to a plain writer, returning the cursor to
// the start of the line and clearing it before each frame
type Loop struct {
	frames   *Frames
	out      io.Writer
	interval time.Duration
}

// NewLoop creates a loop ticking every interval
func NewLoop(frames *Frames, out io.Writer, interval time.Duration) *Loop {
	return &Loop{
		frames:   frames,
		out:      out,
		interval: interval,
	}
}

// Run renders until ctx is cancelled. Cancellation is observed between
// ticks; the line is terminated before returning.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		if err := l.draw(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			_, err := io.WriteString(l.out, "\n")
			return err
		case <-ticker.C:
		}
	}
}

// draw emits the whole frame in a single write so no partial line reaches
// the terminal
func (l *Loop) draw() error {
	_, err := io.WriteString(l.out, "\r"+ansi.EraseEntireLine+l.frames.Tick())
	return err
}
