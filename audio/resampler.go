// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/audclass/utils"
)

// Resampler streams from src to a target sample rate using cubic interpolation.
// Works on interleaved samples and preserves the channel count. When the
// source already runs at the target rate, samples pass through untouched.
// Downsampling runs a one-pole low-pass over the input first.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64 // source frames per output frame
	channels int

	passthrough bool

	// frames[0] = t-1, frames[1] = t0, frames[2] = t+1, frames[3] = t+2
	frames [4][]float32
	valid  [4]bool
	primed bool

	// fractional position between frames[1] and frames[2]
	pos float64

	srcBuf []float32
	srcPos int
	srcLen int
	eof    bool

	lowpass      []float32
	lowpassReady bool
	alpha        float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := max(src.Channels(), 1)

	r := &Resampler{
		src:         src,
		dstRate:     dstRate,
		ratio:       float64(src.SampleRate()) / float64(dstRate),
		channels:    channels,
		passthrough: src.SampleRate() == dstRate,
		srcBuf:      make([]float32, channels*1024),
	}

	for i := range r.frames {
		r.frames[i] = make([]float32, channels)
	}

	if r.ratio > 1 {
		r.lowpass = make([]float32, channels)
		r.alpha = 0.5
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// readFrame copies the next source frame into dst. It reports false once the
// source is exhausted.
func (r *Resampler) readFrame(dst []float32) (bool, error) {
	for r.srcPos >= r.srcLen {
		if r.eof {
			return false, nil
		}

		n, err := r.src.ReadSamples(r.srcBuf)
		r.srcPos, r.srcLen = 0, n-n%r.channels

		switch {
		case err == io.EOF:
			r.eof = true
		case err != nil:
			return false, fmt.Errorf("%w", err)
		case n == 0:
			r.eof = true
		}
	}

	copy(dst, r.srcBuf[r.srcPos:r.srcPos+r.channels])
	r.srcPos += r.channels

	if r.lowpass != nil {
		if !r.lowpassReady {
			copy(r.lowpass, dst)
			r.lowpassReady = true
		}
		for c := range dst {
			dst[c] = r.alpha*dst[c] + (1-r.alpha)*r.lowpass[c]
			r.lowpass[c] = dst[c]
		}
	}

	return true, nil
}

func (r *Resampler) prime() error {
	r.primed = true

	for i := 1; i < len(r.frames); i++ {
		ok, err := r.readFrame(r.frames[i])
		if err != nil {
			return err
		}
		r.valid[i] = ok
		if !ok {
			break
		}
	}

	if !r.valid[1] {
		return io.EOF
	}

	copy(r.frames[0], r.frames[1])
	r.valid[0] = true

	return nil
}

// advance shifts the frame window by one source frame.
func (r *Resampler) advance() error {
	first := r.frames[0]
	copy(r.frames[:], r.frames[1:])
	r.frames[3] = first
	copy(r.valid[:], r.valid[1:])

	ok, err := r.readFrame(r.frames[3])
	r.valid[3] = ok
	return err
}

// ReadSamples produces dst samples at the target rate.
// dst length should be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if r.passthrough {
		n, err := r.src.ReadSamples(dst)
		if err != nil && err != io.EOF {
			return n, fmt.Errorf("%w", err)
		}
		return n, err
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	want := len(dst) / r.channels
	written := 0

	for written < want {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.valid[1] || !r.valid[2] {
			return written * r.channels, io.EOF
		}

		next := r.frames[3]
		if !r.valid[3] {
			next = r.frames[2]
		}

		x := float32(r.pos)
		base := written * r.channels
		for c := range r.channels {
			dst[base+c] = utils.CubicInterpolate(r.frames[0][c], r.frames[1][c], r.frames[2][c], next[c], x)
		}

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}
