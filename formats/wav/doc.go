// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes WAV files.
//
// Decoding goes through github.com/go-audio/wav, so files with extra chunks
// (LIST, fact, cue) before the data chunk are handled. Integer PCM at 16, 24
// and 32 bits is accepted, in any channel count and sample rate:
//
//	file, _ := os.Open("clip.wav")
//	source, err := wav.Decoder{}.Decode(file)
//
// Writing produces the canonical 44-byte header followed by mono 16-bit PCM,
// which is what the recorder stores for training clips:
//
//	err := wav.WriteBuffer(out, buf)
//
// Errors:
//   - ErrNotWavFile: the input has no RIFF/WAVE header
//   - ErrUnsupportedEncoding: the fmt chunk is not integer PCM
//   - ErrUnsupportedBitDepth: the sample size is not 16, 24 or 32 bits
//   - ErrUnsupportedWavLayout: the fmt or data chunk is missing or broken
package wav
