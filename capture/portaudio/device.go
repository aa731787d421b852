// SPDX-License-Identifier: EPL-2.0

// Package portaudio captures from the default input device through
// PortAudio. It needs cgo and the PortAudio C library.
package portaudio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/ik5/audclass/audio"
	"github.com/ik5/audclass/capture"
)

// Device records mono 16-bit clips from the default input.
type Device struct {
	cfg    capture.Config
	logger *slog.Logger

	mu     sync.Mutex
	stream *portaudio.Stream
	chunk  []int16
}

func New(cfg capture.Config, logger *slog.Logger) *Device {
	if logger == nil {
		logger = slog.Default()
	}
	return &Device{cfg: cfg, logger: logger}
}

// Open initializes PortAudio and opens a blocking input stream.
func (d *Device) Open() error {
	if err := d.cfg.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stream != nil {
		return nil
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("%w: initialize: %w", capture.ErrDeviceLost, err)
	}

	d.chunk = make([]int16, d.cfg.ChunkFrames)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(d.cfg.SampleRate), len(d.chunk), d.chunk)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("%w: open input: %w", capture.ErrDeviceLost, err)
	}
	d.stream = stream

	d.logger.Debug("capture device opened", "sample_rate", d.cfg.SampleRate, "chunk_frames", d.cfg.ChunkFrames)
	return nil
}

// Capture records one clip. The stream runs only while a clip is being
// recorded. Cancellation is checked between chunks.
func (d *Device) Capture(ctx context.Context) (audio.Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stream == nil {
		return audio.Buffer{}, fmt.Errorf("%w: device not open", capture.ErrDeviceLost)
	}

	if err := d.stream.Start(); err != nil {
		return audio.Buffer{}, classify(err)
	}
	defer d.stream.Stop()

	frames := d.cfg.Frames()
	pcm := make([]int16, 0, frames)
	overrun := false

	for len(pcm) < frames {
		if err := ctx.Err(); err != nil {
			return audio.Buffer{}, err
		}

		if err := d.stream.Read(); err != nil {
			if !errors.Is(err, portaudio.InputOverflowed) {
				return audio.Buffer{}, classify(err)
			}
			overrun = true
		}
		pcm = append(pcm, d.chunk...)
	}

	if overrun {
		if d.cfg.DropOnOverflow {
			return audio.Buffer{}, capture.ErrOverrun
		}
		d.logger.Debug("input overflowed during capture")
	}

	return audio.FromInt16(pcm, d.cfg.SampleRate), nil
}

// Close stops the stream and releases PortAudio.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stream == nil {
		return nil
	}

	err := d.stream.Close()
	d.stream = nil
	if termErr := portaudio.Terminate(); err == nil {
		err = termErr
	}
	if err != nil {
		return fmt.Errorf("close capture device: %w", err)
	}
	return nil
}

// classify maps PortAudio failures onto the capture error kinds.
func classify(err error) error {
	var hostErr portaudio.UnanticipatedHostError
	switch {
	case errors.Is(err, portaudio.InputOverflowed):
		return fmt.Errorf("%w: %w", capture.ErrOverrun, err)
	case errors.Is(err, portaudio.DeviceUnavailable),
		errors.Is(err, portaudio.NotInitialized),
		errors.Is(err, portaudio.BadStreamPtr),
		errors.As(err, &hostErr):
		return fmt.Errorf("%w: %w", capture.ErrDeviceLost, err)
	default:
		return fmt.Errorf("capture: %w", err)
	}
}

var _ capture.Device = (*Device)(nil)
