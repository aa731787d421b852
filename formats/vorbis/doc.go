// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files through github.com/jfreymuth/oggvorbis.
//
// Samples come out of the decoder already as interleaved float32, so the
// source only guards frame boundaries. Streams that oggvorbis cannot open
// fail with ErrNotOggVorbis.
package vorbis
