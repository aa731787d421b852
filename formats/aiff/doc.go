// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files through github.com/go-audio/aiff.
//
// Signed PCM at 8, 16, 24 and 32 bits is supported. Samples are scaled to
// float32 in [-1.0, 1.0] according to the bit depth:
//
//	source, err := aiff.Decoder{}.Decode(file)
//
// go-audio needs an io.ReadSeeker; plain readers are buffered in memory.
package aiff
