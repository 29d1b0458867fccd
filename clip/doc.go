// SPDX-License-Identifier: EPL-2.0

// Package clip converts a single labeled audio clip into fixed-size log-mel
// samples.
//
// File names carry the class label as their second "-" separated token, as
// in UrbanSound8K ("7061-6-0-0.wav" has label 6). The decoded waveform is
// cut into half-overlapping windows of WindowSize(frames) samples; windows
// running past the end of the clip are dropped and every remaining window
// becomes a bands x frames log-mel spectrogram.
package clip
