package ui

import "log/slog"

// Mode is a renderable UI: it consumes one frequency per tick and produces
// one line of output. Frames carry no cursor control; the render loop owns
// line clearing.
type Mode interface {
	// Update feeds the latest frequency (0 when nothing was detected yet)
	Update(freq float64)

	// Render returns the current frame
	Render() (string, error)
}

// Source supplies the latest published frequency
type Source interface {
	Load() float64
}

// Frames runs one render tick at a time and remembers the last good frame
type Frames struct {
	mode   Mode
	source Source
	logger *slog.Logger
	frame  string
}

// NewFrames creates a frame producer reading from source
func NewFrames(mode Mode, source Source, logger *slog.Logger) *Frames {
	return &Frames{
		mode:   mode,
		source: source,
		logger: logger,
	}
}

// Tick reads the source once, updates the mode and renders it. When the
// mode fails to render, the previous frame is returned unchanged.
func (f *Frames) Tick() string {
	freq := f.source.Load()
	f.mode.Update(freq)

	frame, err := f.mode.Render()
	if err != nil {
		f.logger.Debug("render failed, holding previous frame", "freq", freq, "err", err)
		return f.frame
	}

	f.frame = frame
	return frame
}
