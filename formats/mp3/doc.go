// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1 Layer III audio with
// github.com/hajimehoshi/go-mp3.
//
// The decoder always produces interleaved stereo at the stream's native
// sample rate. Mono mixing and resampling are left to audio.Load.
package mp3
