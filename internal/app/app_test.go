package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/0xlemi/pitchbar/internal/audio"
	"github.com/0xlemi/pitchbar/internal/config"
	"github.com/0xlemi/pitchbar/internal/logging"
	"github.com/0xlemi/pitchbar/internal/pitch"
	"github.com/0xlemi/pitchbar/internal/ui"
)

// A 440 Hz sine fed through the whole pipeline renders a centered, green A
func TestSineToTunerFrame(t *testing.T) {
	cfg := config.Default()

	estimator, err := pitch.NewEstimator(cfg.Detector, cfg.WindowSize, cfg.EstimatorPadding())
	if err != nil {
		t.Fatalf("NewEstimator() = %v", err)
	}
	cell := &audio.FrequencyCell{}
	controller := audio.NewController(audio.AnalysisConfig{
		WindowSize:       cfg.WindowSize,
		SampleRate:       cfg.SampleRate,
		PowerThreshold:   cfg.PowerThreshold,
		ClarityThreshold: cfg.ClarityThreshold,
	}, estimator, cell)

	window := make([]float32, cfg.WindowSize)
	audio.Sine(window, 440, 0.5, cfg.SampleRate, 0)
	est, ok := controller.Feed(window)
	if !ok {
		t.Fatal("no estimate for a 440 Hz sine")
	}

	note, err := pitch.FindNote(est.Frequency)
	if err != nil || note.Name != "A" || note.Frequency != 440 {
		t.Fatalf("FindNote(%.3f) = %+v, %v; want A 440", est.Frequency, note, err)
	}

	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI)
	tuner := ui.NewTuner(cfg.MeterWidth, false, ui.NewStyles(r))
	frame := ui.NewFrames(tuner, cell, logging.Discard()).Tick()

	if !strings.Contains(frame, "\x1b[32m") {
		t.Fatalf("frame %q is not green", frame)
	}
	plain := ansi.Strip(frame)
	side := cfg.MeterWidth + 1
	// The estimate lands within a fraction of a cent, so the marker touches
	// the label on one side or the other
	meter := plain[:2*side+5]
	if strings.Count(meter, "v") != 1 || (plain[side-1] != 'v' && plain[side+5] != 'v') {
		t.Fatalf("marker not centered: %q", plain)
	}
	if !strings.HasSuffix(plain, " 0 cents") {
		t.Fatalf("frame %q does not read 0 cents", plain)
	}
}

func TestRunWithTone(t *testing.T) {
	cfg := config.Default()
	cfg.Tone = 440
	cfg.Plain = true

	ctx, cancel := context.WithTimeout(context.Background(), 600*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	if err := Run(ctx, cfg, ModeTuner, &out, logging.Discard()); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	got := ansi.Strip(out.String())
	if !strings.Contains(got, "A") || !strings.Contains(got, " 0 cents") {
		t.Fatalf("output never showed an in-tune A: %q", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Fatalf("output not terminated by a newline")
	}
}

func TestRunPitchTestHeader(t *testing.T) {
	cfg := config.Default()
	cfg.Tone = 261.63
	cfg.Plain = true

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	if err := Run(ctx, cfg, ModePitchTest, &out, logging.Discard()); err != nil {
		t.Fatalf("Run() = %v", err)
	}

	got := ansi.Strip(out.String())
	if !strings.HasPrefix(got, "Play the requested note:\n") || !strings.Contains(got, "target:") {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Tone = 440
	cfg.WindowSize = 0

	err := Run(context.Background(), cfg, ModeTuner, io.Discard, logging.Discard())
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("Run() = %v, want ErrInvalidConfig", err)
	}

	cfg = config.Default()
	cfg.Tone = 440
	cfg.Detector = "yin"
	err = Run(context.Background(), cfg, ModeTuner, io.Discard, logging.Discard())
	if !errors.Is(err, pitch.ErrUnknownDetector) {
		t.Fatalf("Run() = %v, want ErrUnknownDetector", err)
	}
}
