// SPDX-License-Identifier: EPL-2.0

// Package spectral computes log-mel spectrograms and their time deltas.
//
// The defaults are the usual ones for environmental sound classification:
//
//   - centered STFT, reflect padding, periodic Hann window, 2048-point FFT,
//     hop 512, power 2
//   - Slaney mel scale and area-normalized triangular filters from 0 Hz to
//     Nyquist
//   - decibel scaling with amin 1e-5, reference 1.0 and an 80 dB floor
//   - first-order Savitzky-Golay delta of width 9 with linear-fit edges
//
// An Extractor is built once per sample rate and shared between goroutines:
//
//	ext, err := spectral.NewExtractor(spectral.DefaultConfig(22050, 60))
//	logmel, err := ext.LogMel(window)
//	delta, err := spectral.Delta(logmel, spectral.DefaultDeltaWidth)
//
// The FFT comes from gonum.org/v1/gonum/dsp/fourier.
package spectral
