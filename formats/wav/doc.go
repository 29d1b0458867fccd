// SPDX-License-Identifier: EPL-2.0

// Package wav decodes RIFF/WAVE files into an audio.Source.
//
// Parsing is delegated to github.com/go-audio/wav. Integer PCM at 8, 16, 24
// and 32 bits is supported, both for the plain PCM format tag and for
// WAVE_FORMAT_EXTENSIBLE. Samples are returned interleaved and normalized to
// [-1, 1]:
//
//	f, _ := os.Open("7061-6-0-0.wav")
//	src, err := wav.Decoder{}.Decode(f)
//	if errors.Is(err, wav.ErrNotWavFile) {
//	    // not a WAV file
//	}
//
// Inputs that do not implement io.Seeker are buffered in memory first.
package wav
