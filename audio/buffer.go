// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/ik5/audclass/utils"
)

// Buffer is a complete mono signal held in memory.
//
// Samples are float64 in the conventional [-1, 1] range. A Buffer is treated
// as immutable: every transforming method returns a new Buffer and leaves the
// receiver untouched.
type Buffer struct {
	Samples    []float64
	SampleRate int
}

// NewBuffer wraps samples recorded at rate. The slice is not copied.
func NewBuffer(samples []float64, rate int) Buffer {
	return Buffer{Samples: samples, SampleRate: rate}
}

// FromInt16 converts 16-bit PCM into a Buffer.
func FromInt16(pcm []int16, rate int) Buffer {
	out := make([]float64, len(pcm))
	for i, v := range pcm {
		out[i] = utils.Int16ToFloat64(v)
	}
	return Buffer{Samples: out, SampleRate: rate}
}

func (b Buffer) Len() int { return len(b.Samples) }

// Duration of the buffer at its sample rate.
func (b Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(b.Samples)) * time.Second / time.Duration(b.SampleRate)
}

// Validate reports whether the buffer can be analysed.
func (b Buffer) Validate() error {
	if b.SampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRate, b.SampleRate)
	}
	return nil
}

// Peak returns the largest absolute sample value.
func (b Buffer) Peak() float64 {
	var peak float64
	for _, v := range b.Samples {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

// Scale returns a copy with every sample multiplied by k.
func (b Buffer) Scale(k float64) Buffer {
	out := make([]float64, len(b.Samples))
	for i, v := range b.Samples {
		out[i] = v * k
	}
	return Buffer{Samples: out, SampleRate: b.SampleRate}
}

// NormalizePeak returns a copy scaled so the peak amplitude is 1.
// A silent buffer is returned as a plain copy.
func (b Buffer) NormalizePeak() Buffer {
	peak := b.Peak()
	if peak == 0 {
		return b.Scale(1)
	}
	return b.Scale(1 / peak)
}

// Int16 converts the buffer to clamped 16-bit PCM.
func (b Buffer) Int16() []int16 {
	out := make([]int16, len(b.Samples))
	for i, v := range b.Samples {
		out[i] = utils.Float64ToInt16(v)
	}
	return out
}

// Collect drains a mono source into a Buffer. The source is not closed.
func Collect(src Source) (Buffer, error) {
	if src.Channels() != 1 {
		return Buffer{}, fmt.Errorf("%w: got %d channels", ErrNotMono, src.Channels())
	}

	size := src.BufSize()
	if size <= 0 {
		size = 4096
	}
	buf := make([]float32, size)
	out := make([]float64, 0, src.SampleRate()*2)

	for {
		n, err := src.ReadSamples(buf)
		for i := range n {
			out = append(out, float64(buf[i]))
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return Buffer{}, fmt.Errorf("collect samples: %w", err)
		}
		if n == 0 {
			// Some decoders signal the end with (0, nil).
			break
		}
	}

	return Buffer{Samples: out, SampleRate: src.SampleRate()}, nil
}
