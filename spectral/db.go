// SPDX-License-Identifier: EPL-2.0

package spectral

import "math"

const amin = 1e-5

// AmplitudeToDB converts s to decibels as 20*log10(max(amin, |x|)) and
// raises every value to at least max-topDB. A negative topDB disables the
// floor.
func AmplitudeToDB(s *Spectrogram, topDB float64) *Spectrogram {
	out := make([]float32, len(s.data))

	peak := math.Inf(-1)
	for i, v := range s.data {
		db := 20 * math.Log10(max(amin, math.Abs(float64(v))))
		out[i] = float32(db)
		peak = max(peak, db)
	}

	if topDB >= 0 {
		floor := float32(peak - topDB)
		for i, v := range out {
			out[i] = max(v, floor)
		}
	}

	return &Spectrogram{bands: s.bands, frames: s.frames, data: out}
}
