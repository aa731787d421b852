// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	"github.com/ik5/audclass/audio"
	"github.com/ik5/audclass/internal/pcmsource"
)

// Decoder reads uncompressed AIFF files (8 to 32 bit) through go-audio.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := pcmsource.Seekable(r)
	if err != nil {
		return nil, fmt.Errorf("reading aiff data: %w", err)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	if !supportedDepth(int(dec.BitDepth)) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	format := dec.Format()
	if format == nil || format.NumChannels == 0 || format.SampleRate == 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	return pcmsource.New(dec, format.SampleRate, format.NumChannels, int(dec.BitDepth)), nil
}

func supportedDepth(bits int) bool {
	return bits == 8 || bits == 16 || bits == 24 || bits == 32
}
