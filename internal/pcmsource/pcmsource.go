// SPDX-License-Identifier: EPL-2.0

// Package pcmsource adapts the integer PCM decoders of go-audio (wav and
// aiff) to audio.Source.
package pcmsource

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audclass/utils"
)

const defaultBufSize = 4096

// Reader is implemented by go-audio's wav.Decoder and aiff.Decoder.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source scales the integer samples of a Reader to [-1, 1].
type Source struct {
	dec      Reader
	rate     int
	channels int
	bitDepth int

	ints []int
	done bool
}

func New(dec Reader, rate, channels, bitDepth int) *Source {
	return &Source{
		dec:      dec,
		rate:     rate,
		channels: channels,
		bitDepth: bitDepth,
	}
}

func (s *Source) SampleRate() int { return s.rate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) Close() error    { return nil }

func (s *Source) BufSize() int {
	if cap(s.ints) > 0 {
		return cap(s.ints)
	}
	return defaultBufSize
}

// ReadSamples decodes up to len(dst) samples. go-audio reports the end of
// the data chunk with an empty read, which becomes io.EOF.
func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if s.done {
		return 0, io.EOF
	}

	if cap(s.ints) < len(dst) {
		s.ints = make([]int, len(dst))
	}
	ib := &goaudio.IntBuffer{Data: s.ints[:len(dst)]}

	n, err := s.dec.PCMBuffer(ib)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("%w", err)
	}
	if n == 0 {
		s.done = true
		return 0, io.EOF
	}

	for i, v := range ib.Data[:n] {
		dst[i] = float32(utils.IntToFloat64(v, s.bitDepth))
	}

	if err == io.EOF {
		s.done = true
		return n, io.EOF
	}
	return n, nil
}

// Seekable returns r itself when it can seek, or an in-memory copy
// otherwise. go-audio decoders need to seek between chunks.
func Seekable(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
