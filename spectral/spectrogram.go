// SPDX-License-Identifier: EPL-2.0

package spectral

import "fmt"

// Spectrogram is a bands x frames matrix of float32 values stored row-major:
// the value of band b at frame f lives at index b*frames+f.
//
// A Spectrogram is never modified after construction.
type Spectrogram struct {
	bands  int
	frames int
	data   []float32
}

// NewSpectrogram takes ownership of data, which must hold exactly
// bands*frames values.
func NewSpectrogram(bands, frames int, data []float32) (*Spectrogram, error) {
	if bands < 1 || frames < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrShape, bands, frames)
	}
	if len(data) != bands*frames {
		return nil, fmt.Errorf("%w: %dx%d needs %d values, got %d", ErrShape, bands, frames, bands*frames, len(data))
	}

	return &Spectrogram{bands: bands, frames: frames, data: data}, nil
}

func (s *Spectrogram) Bands() int  { return s.bands }
func (s *Spectrogram) Frames() int { return s.frames }

func (s *Spectrogram) At(band, frame int) float32 {
	return s.data[band*s.frames+frame]
}

// Row returns the frames of one band. The slice aliases the spectrogram and
// must not be modified.
func (s *Spectrogram) Row(band int) []float32 {
	return s.data[band*s.frames : (band+1)*s.frames]
}

// Data returns the row-major backing slice. It must not be modified.
func (s *Spectrogram) Data() []float32 { return s.data }

// Max returns the largest value.
func (s *Spectrogram) Max() float32 {
	m := s.data[0]
	for _, v := range s.data[1:] {
		m = max(m, v)
	}

	return m
}
