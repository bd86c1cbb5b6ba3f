package audio

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
)

// Input describes an audio input device
type Input struct {
	Name     string
	HostAPI  string
	Channels int
	Default  bool
}

// Inputs lists the devices that can record audio
func Inputs() ([]Input, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}

	defaultName := ""
	if dev, err := portaudio.DefaultInputDevice(); err == nil && dev != nil {
		defaultName = dev.Name
	}

	var inputs []Input
	for _, dev := range devices {
		if dev.MaxInputChannels < 1 {
			continue
		}

		in := Input{
			Name:     dev.Name,
			Channels: dev.MaxInputChannels,
			Default:  dev.Name == defaultName,
		}
		if dev.HostApi != nil {
			in.HostAPI = dev.HostApi.Name
		}
		inputs = append(inputs, in)
	}

	return inputs, nil
}

// findInput returns the named input, or the default input when name is empty.
// PortAudio must already be initialized.
func findInput(name string) (*portaudio.DeviceInfo, error) {
	if name == "" {
		dev, err := portaudio.DefaultInputDevice()
		if err != nil || dev == nil {
			return nil, ErrNoDefaultInput
		}
		return dev, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	for _, dev := range devices {
		if dev.Name == name && dev.MaxInputChannels > 0 {
			return dev, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNoSuchInput, name)
}

// PortAudioCapturer implements audio capture using PortAudio
type PortAudioCapturer struct {
	isCapturing bool
	stream      *portaudio.Stream
	device      *portaudio.DeviceInfo
	sampleRate  int
	onSamples   SampleFunc
	overflows   atomic.Int64
	underflows  atomic.Int64
	logger      *slog.Logger
}

// NewPortAudioCapturer initializes PortAudio and resolves the input device.
// An empty input name selects the host's default input.
func NewPortAudioCapturer(input string, sampleRate int, onSamples SampleFunc, logger *slog.Logger) (*PortAudioCapturer, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}

	device, err := findInput(input)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}

	return &PortAudioCapturer{
		device:     device,
		sampleRate: sampleRate,
		onSamples:  onSamples,
		logger:     logger,
	}, nil
}

// Name returns the device name
func (c *PortAudioCapturer) Name() string {
	return c.device.Name
}

// Start opens a mono input stream on the device and starts it
func (c *PortAudioCapturer) Start() error {
	if c.isCapturing {
		return ErrAlreadyCapturing
	}

	params := portaudio.LowLatencyParameters(c.device, nil)
	params.Input.Channels = 1
	params.SampleRate = float64(c.sampleRate)
	params.FramesPerBuffer = portaudio.FramesPerBufferUnspecified

	var err error
	c.stream, err = portaudio.OpenStream(params, c.processAudio)
	if err != nil {
		return fmt.Errorf("open stream on %q: %w", c.device.Name, err)
	}

	if err := c.stream.Start(); err != nil {
		c.stream.Close()
		return fmt.Errorf("start stream on %q: %w", c.device.Name, err)
	}

	c.isCapturing = true
	c.logger.Info("audio capture started", "device", c.device.Name, "sample_rate", c.sampleRate)
	return nil
}

// Stop ends audio capture and releases PortAudio
func (c *PortAudioCapturer) Stop() error {
	if !c.isCapturing {
		return ErrNotCapturing
	}
	c.isCapturing = false

	err := c.stream.Stop()
	if closeErr := c.stream.Close(); err == nil {
		err = closeErr
	}
	if termErr := portaudio.Terminate(); err == nil {
		err = termErr
	}

	c.logger.Info("audio capture stopped", "device", c.device.Name, "overflows", c.overflows.Load(), "underflows", c.underflows.Load())
	return err
}

// IsCapturing returns true if currently capturing audio
func (c *PortAudioCapturer) IsCapturing() bool {
	return c.isCapturing
}

// processAudio is the callback function for audio processing. Stream
// glitches are only counted here; they are logged when capture stops.
func (c *PortAudioCapturer) processAudio(in []float32, _ portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) {
	if flags&portaudio.InputOverflow != 0 {
		c.overflows.Add(1)
	}
	if flags&portaudio.InputUnderflow != 0 {
		c.underflows.Add(1)
	}

	c.onSamples(in)
}
