// SPDX-License-Identifier: EPL-2.0

// Package audio provides the low-level audio primitives shared by the
// classifier, the training pipeline and the capture layer.
//
// # Streaming
//
// The Source interface is the foundation of decoding:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Decoders in the formats/ tree return a Source. Sources chain: a Resampler
// changes the sample rate with cubic interpolation, and a MonoMixer averages
// the channels down to one:
//
//	mono := audio.NewMonoMixer(audio.NewResampler(src, 44100))
//	buf, err := audio.Collect(mono)
//
// # Buffers
//
// Analysis works on Buffer, a complete mono signal held in memory as float64
// samples in [-1.0, 1.0]. Buffers are never modified in place; Scale and
// NormalizePeak return new buffers.
//
// # Format Registry
//
// The registry maps format keys (usually file extensions) to decoders:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{}, "wave")
//	decoder, ok := registry.Get(".WAV")
//
// # Error Handling
//
// ReadSamples returns io.EOF when no more data is available. Other errors are
// wrapped and returned as-is.
package audio
