// SPDX-License-Identifier: EPL-2.0

// Package audclass tells tonal audio ("song") apart from broadband noise
// ("white-noise") using a small set of statistical descriptors.
//
// The work is split across subpackages:
//
//   - audio, formats/... and loader decode training files into mono
//     float64 buffers at a fixed analysis rate.
//   - descriptor computes the seven-component descriptor vector of a buffer.
//   - profile averages descriptor vectors into one reference profile per
//     label, and store persists profiles and recording metadata.
//   - classifier picks the label whose profile is nearest to a live vector.
//   - capture, report and detector drive the real-time loop: record a
//     clip, classify it, print the verdict, wait, repeat.
//   - recorder collects labelled training clips from the microphone.
//   - config loads the YAML settings shared by the commands.
//
// The cmd/audclass binary wires all of the above behind a cobra CLI.
//
// # Decoding
//
// ResampleToMono is the usual entry point for turning any decoded
// audio.Source into an analysable buffer:
//
//	src, _ := wav.Decoder{}.Decode(file)
//	buf, err := audclass.ResampleToMono(src, 44100)
//	if err != nil {
//	    return err
//	}
//	vec, err := descriptor.Batch(buf)
package audclass
