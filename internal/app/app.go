package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"github.com/0xlemi/pitchbar/internal/audio"
	"github.com/0xlemi/pitchbar/internal/config"
	"github.com/0xlemi/pitchbar/internal/pitch"
	"github.com/0xlemi/pitchbar/internal/ui"
)

// Mode selects what is drawn
type Mode int

const (
	ModeTuner Mode = iota
	ModePitchTest
)

const (
	// Samples per synthetic tone block, 10 ms at 44.1 kHz
	toneBlock     = 441
	toneAmplitude = 0.5
)

// Run captures audio and renders the selected mode to out until ctx is
// cancelled or the user quits
func Run(ctx context.Context, cfg config.Config, mode Mode, out io.Writer, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	estimator, err := pitch.NewEstimator(cfg.Detector, cfg.WindowSize, cfg.EstimatorPadding())
	if err != nil {
		return err
	}

	cell := &audio.FrequencyCell{}
	controller := audio.NewController(audio.AnalysisConfig{
		WindowSize:       cfg.WindowSize,
		SampleRate:       cfg.SampleRate,
		PowerThreshold:   cfg.PowerThreshold,
		ClarityThreshold: cfg.ClarityThreshold,
	}, estimator, cell)

	capturer, err := newCapturer(cfg, controller.Handle, logger)
	if err != nil {
		return err
	}
	if err := capturer.Start(); err != nil {
		return err
	}
	logger.Info("listening", "source", capturer.Name(), "detector", cfg.Detector, "window", cfg.WindowSize)

	styles := ui.NewStyles(lipgloss.NewRenderer(out))
	frames := ui.NewFrames(newMode(cfg, mode, styles), cell, logger)

	if mode == ModePitchTest {
		fmt.Fprintln(out, "Play the requested note:")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		if cfg.Plain || !isTerminal(out) {
			return ui.NewLoop(frames, out, cfg.FrameInterval()).Run(ctx)
		}
		return runProgram(ctx, ui.NewModel(frames, cfg.FrameInterval()), out)
	})
	g.Go(func() error {
		<-ctx.Done()
		return capturer.Stop()
	})

	return g.Wait()
}

func newCapturer(cfg config.Config, onSamples audio.SampleFunc, logger *slog.Logger) (audio.Capturer, error) {
	if cfg.Tone > 0 {
		return audio.NewToneCapturer(cfg.Tone, toneAmplitude, cfg.SampleRate, toneBlock, onSamples), nil
	}
	return audio.NewPortAudioCapturer(cfg.Input, cfg.SampleRate, onSamples, logger)
}

func newMode(cfg config.Config, mode Mode, styles ui.Styles) ui.Mode {
	if mode == ModePitchTest {
		return ui.NewPitchTest(cfg.HoldFrames, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), styles)
	}
	return ui.NewTuner(cfg.MeterWidth, cfg.ShowFrequency, styles)
}

// runProgram runs the interactive display inline, so each frame replaces
// the previous line
func runProgram(ctx context.Context, model ui.Model, out io.Writer) error {
	p := tea.NewProgram(model, tea.WithOutput(out))

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running display: %w", err)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ListInputs prints the available audio inputs
func ListInputs(out io.Writer) error {
	inputs, err := audio.Inputs()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "available audio inputs")
	for _, in := range inputs {
		line := "- " + in.Name
		if in.HostAPI != "" {
			line += " [" + in.HostAPI + "]"
		}
		if in.Default {
			line += " (default)"
		}
		fmt.Fprintln(out, line)
	}

	return nil
}
