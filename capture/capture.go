// SPDX-License-Identifier: EPL-2.0

// Package capture defines the microphone boundary used by the detector and
// the recorder.
package capture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ik5/audclass/audio"
)

var (
	// ErrOverrun means input was lost during a capture. The clip is
	// discarded and capturing may continue.
	ErrOverrun = errors.New("capture overrun")
	// ErrDeviceLost means the device is gone and no further capture will
	// succeed.
	ErrDeviceLost = errors.New("capture device lost")
)

// Device records fixed-length mono clips.
//
// Open must succeed before Capture is called, and Close releases the device.
// Capture blocks for roughly the configured duration.
type Device interface {
	Open() error
	Capture(ctx context.Context) (audio.Buffer, error)
	Close() error
}

// Config describes the clips a Device produces.
type Config struct {
	SampleRate int
	Duration   time.Duration
	// ChunkFrames is the number of frames read from the hardware at a time.
	ChunkFrames int
	// DropOnOverflow turns input overflows into ErrOverrun instead of
	// keeping the partially late data.
	DropOnOverflow bool
}

// DefaultConfig captures 2 s at 44.1 kHz in 1024-frame chunks.
func DefaultConfig() Config {
	return Config{
		SampleRate:  44100,
		Duration:    2 * time.Second,
		ChunkFrames: 1024,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: %d", audio.ErrInvalidRate, c.SampleRate)
	case c.Duration <= 0:
		return fmt.Errorf("capture duration must be positive, got %s", c.Duration)
	case c.ChunkFrames <= 0:
		return fmt.Errorf("chunk frames must be positive, got %d", c.ChunkFrames)
	}
	return nil
}

// Frames is the number of frames in one clip: the duration truncated to
// whole chunks, never less than one chunk.
func (c Config) Frames() int {
	want := int(c.Duration.Seconds() * float64(c.SampleRate))
	return max(want/c.ChunkFrames, 1) * c.ChunkFrames
}
