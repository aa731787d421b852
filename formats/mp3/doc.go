// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files through github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces interleaved stereo 16-bit PCM, so the returned
// source reports two channels even for mono files. Feed it through
// audio.MonoMixer when a single channel is needed.
package mp3
