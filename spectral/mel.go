// SPDX-License-Identifier: EPL-2.0

package spectral

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Slaney mel scale: linear below 1 kHz, logarithmic above.
const (
	melFSp       = 200.0 / 3
	melMinLogHz  = 1000.0
	melMinLogMel = melMinLogHz / melFSp
)

var melLogStep = math.Log(6.4) / 27

func HzToMel(hz float64) float64 {
	if hz >= melMinLogHz {
		return melMinLogMel + math.Log(hz/melMinLogHz)/melLogStep
	}

	return hz / melFSp
}

func MelToHz(mel float64) float64 {
	if mel >= melMinLogMel {
		return melMinLogHz * math.Exp(melLogStep*(mel-melMinLogMel))
	}

	return mel * melFSp
}

// MelFrequencies returns n frequencies in Hz evenly spaced on the mel scale
// between fmin and fmax inclusive.
func MelFrequencies(n int, fmin, fmax float64) []float64 {
	mels := floats.Span(make([]float64, n), HzToMel(fmin), HzToMel(fmax))
	for i, m := range mels {
		mels[i] = MelToHz(m)
	}

	return mels
}

// melFilter is one triangular filter, stored as its non-zero span over the
// FFT bins.
type melFilter struct {
	start   int
	weights []float64
}

// melFilterbank builds area-normalized triangular filters over the
// nfft/2+1 bins of a real FFT.
func melFilterbank(cfg Config) []melFilter {
	bins := cfg.NFFT/2 + 1
	fftFreqs := floats.Span(make([]float64, bins), 0, float64(cfg.SampleRate)/2)
	melF := MelFrequencies(cfg.Bands+2, cfg.FMin, cfg.fmax())

	filters := make([]melFilter, cfg.Bands)
	row := make([]float64, bins)

	for i := range filters {
		lowDiff := melF[i+1] - melF[i]
		highDiff := melF[i+2] - melF[i+1]
		enorm := 2 / (melF[i+2] - melF[i])

		first, last := -1, -1
		for k, f := range fftFreqs {
			lower := (f - melF[i]) / lowDiff
			upper := (melF[i+2] - f) / highDiff
			row[k] = max(0, min(lower, upper)) * enorm

			if row[k] > 0 {
				if first < 0 {
					first = k
				}
				last = k
			}
		}

		if first < 0 {
			// Band narrower than one bin.
			filters[i] = melFilter{}
			continue
		}

		filters[i] = melFilter{
			start:   first,
			weights: append([]float64(nil), row[first:last+1]...),
		}
	}

	return filters
}
