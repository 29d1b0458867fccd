// SPDX-License-Identifier: EPL-2.0

// Package audio turns encoded audio files into mono float32 waveforms.
//
// A Source streams interleaved samples in [-1, 1]. Decoders for individual
// container formats live under formats/ and are looked up by file extension
// through a Registry. Two Source adapters shape the stream:
//
//   - MonoMixer averages all channels into one.
//   - Resampler converts between sample rates with Catmull-Rom interpolation
//     and a light low-pass when downsampling.
//
// Load chains both and drains the result into a Waveform. FileLoader does
// the same starting from a path:
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Decoder{})
//
//	loader := audio.NewFileLoader(reg, audio.DefaultSampleRate)
//	w, err := loader.Load(ctx, "fold1/7061-6-0-0.wav")
//
// Sources are not safe for concurrent use. A Registry and a FileLoader are.
package audio
