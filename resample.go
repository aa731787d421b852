// SPDX-License-Identifier: EPL-2.0

package audclass

import (
	"fmt"

	"github.com/ik5/audclass/audio"
)

// ResampleToMono converts src to a single channel at targetRate and collects
// the whole stream into memory. The source is not closed.
//
// The pipeline is resample first, then downmix, so the cubic interpolation
// runs on each channel separately.
func ResampleToMono(src audio.Source, targetRate int) (audio.Buffer, error) {
	if targetRate <= 0 {
		return audio.Buffer{}, fmt.Errorf("%w: %d", audio.ErrInvalidRate, targetRate)
	}

	mono := audio.NewMonoMixer(audio.NewResampler(src, targetRate))

	buf, err := audio.Collect(mono)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("resample to %d Hz: %w", targetRate, err)
	}
	return buf, nil
}
