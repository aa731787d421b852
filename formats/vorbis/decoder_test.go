// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

type mockOggVorbisReader struct {
	data     []float32
	rate     int
	channels int
}

func (m *mockOggVorbisReader) SampleRate() int { return m.rate }
func (m *mockOggVorbisReader) Channels() int   { return m.channels }

func (m *mockOggVorbisReader) Read(p []float32) (int, error) {
	if len(m.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, m.data)
	m.data = m.data[n:]
	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := (Decoder{}).Decode(bytes.NewReader([]byte("OggS but not really")))
	if !errors.Is(err, ErrNotOggVorbis) {
		t.Errorf("Decode() error = %v, want ErrNotOggVorbis", err)
	}
}

func TestSource_ReadSamples_Stereo(t *testing.T) {
	t.Parallel()

	dec := &mockOggVorbisReader{data: []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}, rate: 48000, channels: 2}
	src := &source{dec: dec, rate: 48000, channels: 2}

	// 5 slots hold two whole frames.
	dst := make([]float32, 5)
	n, err := src.ReadSamples(dst)
	if err != nil || n != 4 {
		t.Fatalf("ReadSamples() = (%d, %v), want (4, nil)", n, err)
	}

	n, err = src.ReadSamples(dst)
	if err != nil || n != 2 {
		t.Fatalf("second ReadSamples() = (%d, %v), want (2, nil)", n, err)
	}
	if dst[0] != 0.5 || dst[1] != 0.6 {
		t.Errorf("dst = %v, want [0.5 0.6 ...]", dst[:2])
	}

	if n, err := src.ReadSamples(dst); n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() at end = (%d, %v), want (0, io.EOF)", n, err)
	}
}

func TestSource_ShortDestination(t *testing.T) {
	t.Parallel()

	src := &source{dec: &mockOggVorbisReader{data: []float32{1, 1}, channels: 2}, channels: 2}
	if n, err := src.ReadSamples(make([]float32, 1)); n != 0 || err != nil {
		t.Errorf("ReadSamples() = (%d, %v), want (0, nil)", n, err)
	}
}
