// SPDX-License-Identifier: EPL-2.0

package spectral

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// Extractor computes mel spectrograms for one Config. It is safe for
// concurrent use.
type Extractor struct {
	cfg     Config
	window  []float64
	filters []melFilter
	plans   sync.Pool
}

// plan holds per-goroutine STFT scratch space. fourier.FFT keeps internal
// work buffers and cannot be shared.
type plan struct {
	fft    *fourier.FFT
	frame  []float64
	coeffs []complex128
	power  []float64
}

func NewExtractor(cfg Config) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Extractor{
		cfg:     cfg,
		window:  hann(cfg.NFFT),
		filters: melFilterbank(cfg),
	}
	e.plans.New = func() any {
		return &plan{
			fft:    fourier.NewFFT(cfg.NFFT),
			frame:  make([]float64, cfg.NFFT),
			coeffs: make([]complex128, cfg.NFFT/2+1),
			power:  make([]float64, cfg.NFFT/2+1),
		}
	}

	return e, nil
}

// Frames returns the number of STFT columns produced for n samples.
func (e *Extractor) Frames(n int) int {
	return 1 + n/e.cfg.HopLength
}

// MelSpectrogram returns the mel-scaled power spectrogram of samples using a
// centered STFT with reflect padding and a periodic Hann window.
func (e *Extractor) MelSpectrogram(samples []float32) (*Spectrogram, error) {
	pad := e.cfg.NFFT / 2
	if len(samples) <= pad {
		return nil, fmt.Errorf("%w: %d samples, need more than %d", ErrSignalTooShort, len(samples), pad)
	}

	frames := e.Frames(len(samples))
	out := make([]float32, len(e.filters)*frames)

	p := e.plans.Get().(*plan)
	defer e.plans.Put(p)

	for t := range frames {
		offset := t*e.cfg.HopLength - pad
		for i, w := range e.window {
			p.frame[i] = float64(samples[reflect(offset+i, len(samples))]) * w
		}

		p.coeffs = p.fft.Coefficients(p.coeffs, p.frame)
		for k, c := range p.coeffs {
			p.power[k] = real(c)*real(c) + imag(c)*imag(c)
		}

		for b, f := range e.filters {
			if len(f.weights) == 0 {
				continue
			}
			out[b*frames+t] = float32(floats.Dot(f.weights, p.power[f.start:f.start+len(f.weights)]))
		}
	}

	return NewSpectrogram(len(e.filters), frames, out)
}

// LogMel is MelSpectrogram converted to decibels with an 80 dB floor below
// the peak.
func (e *Extractor) LogMel(samples []float32) (*Spectrogram, error) {
	mel, err := e.MelSpectrogram(samples)
	if err != nil {
		return nil, err
	}

	return AmplitudeToDB(mel, DefaultTopDB), nil
}

// reflect maps i into [0, n) mirroring around the edges without repeating
// them. i must lie within n-1 of the range.
func reflect(i, n int) int {
	switch {
	case i < 0:
		return -i
	case i >= n:
		return 2*(n-1) - i
	}

	return i
}

func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}

	return w
}
