// SPDX-License-Identifier: EPL-2.0

package spectral

import "fmt"

// DefaultDeltaWidth is the number of frames in the delta fit window.
const DefaultDeltaWidth = 9

// Delta estimates the first derivative of every band along the frame axis
// with a Savitzky-Golay filter of polynomial order 1. Frames closer than
// width/2 to an edge take the slope of the line fitted to the first (or
// last) width frames. width must be odd, at least 3 and no larger than the
// frame count.
func Delta(s *Spectrogram, width int) (*Spectrogram, error) {
	if width < 3 || width%2 == 0 {
		return nil, fmt.Errorf("%w: %d must be odd and >= 3", ErrInvalidWidth, width)
	}
	if width > s.frames {
		return nil, fmt.Errorf("%w: %d exceeds %d frames", ErrInvalidWidth, width, s.frames)
	}

	out := make([]float32, len(s.data))
	for b := range s.bands {
		deltaRow(out[b*s.frames:(b+1)*s.frames], s.Row(b), width)
	}

	return &Spectrogram{bands: s.bands, frames: s.frames, data: out}, nil
}

func deltaRow(dst, src []float32, width int) {
	half := width / 2
	n := len(src)

	// sum of k^2 for k in [-half, half]
	denom := float64(half*(half+1)*(2*half+1)) / 3

	for t := half; t < n-half; t++ {
		var acc float64
		for k := 1; k <= half; k++ {
			acc += float64(k) * float64(src[t+k]-src[t-k])
		}
		dst[t] = float32(acc / denom)
	}

	for t := range half {
		dst[t] = dst[half]
		dst[n-1-t] = dst[n-1-half]
	}
}
