// SPDX-License-Identifier: EPL-2.0

// Package loader turns audio files on disk into mono buffers at a fixed
// analysis rate.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ik5/audclass"
	"github.com/ik5/audclass/audio"
	"github.com/ik5/audclass/formats/aiff"
	"github.com/ik5/audclass/formats/mp3"
	"github.com/ik5/audclass/formats/vorbis"
	"github.com/ik5/audclass/formats/wav"
)

// DefaultRate is the analysis rate used for training files.
const DefaultRate = 44100

// DefaultRegistry returns a registry with every bundled decoder keyed by the
// file extensions it handles.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{}, "wave")
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{}, "oga")
	reg.Register("aiff", aiff.Decoder{}, "aif")
	return reg
}

// FileLoader decodes a file chosen by extension and converts it to mono at
// TargetRate.
type FileLoader struct {
	Registry   *audio.Registry
	TargetRate int
}

// New returns a FileLoader over DefaultRegistry at DefaultRate.
func New() *FileLoader {
	return &FileLoader{Registry: DefaultRegistry(), TargetRate: DefaultRate}
}

// Load reads path fully into memory. A missing file yields ErrNotFound and an
// unknown extension ErrUnsupportedFormat.
func (l *FileLoader) Load(ctx context.Context, path string) (audio.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return audio.Buffer{}, err
	}

	ext := filepath.Ext(path)
	dec, ok := l.Registry.Get(ext)
	if !ok {
		return audio.Buffer{}, fmt.Errorf("%w: %q (%s)", ErrUnsupportedFormat, ext, path)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return audio.Buffer{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return audio.Buffer{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("decode %s: %w", path, err)
	}
	defer src.Close()

	rate := l.TargetRate
	if rate <= 0 {
		rate = DefaultRate
	}

	buf, err := audclass.ResampleToMono(src, rate)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("load %s: %w", path, err)
	}
	return buf, nil
}
