// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audclass/audio"
	"github.com/jfreymuth/oggvorbis"
)

// vorbisReader is the part of oggvorbis.Reader used by source.
type vorbisReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

// source adapts an oggvorbis.Reader, which already yields interleaved
// float32 samples, to audio.Source.
type source struct {
	dec      vorbisReader
	rate     int
	channels int
}

func (s *source) SampleRate() int { return s.rate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 }

// ReadSamples fills dst with whole frames only. A dst shorter than one frame
// reads nothing.
func (s *source) ReadSamples(dst []float32) (int, error) {
	whole := len(dst) - len(dst)%s.channels
	if whole == 0 {
		return 0, nil
	}

	n, err := s.dec.Read(dst[:whole])
	switch {
	case errors.Is(err, io.EOF):
		return n, io.EOF
	case err != nil:
		return 0, fmt.Errorf("vorbis: read: %w", err)
	case n == 0:
		return 0, io.EOF
	}
	return n, nil
}

// Decoder opens Ogg Vorbis streams.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotOggVorbis, err)
	}

	return &source{
		dec:      dec,
		rate:     dec.SampleRate(),
		channels: dec.Channels(),
	}, nil
}
