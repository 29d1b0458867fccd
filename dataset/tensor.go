// SPDX-License-Identifier: EPL-2.0

package dataset

import "fmt"

// Channels per sample: log-mel and its delta.
const (
	Channels     = 2
	ChannelMel   = 0
	ChannelDelta = 1
)

// Shape is the size of a Tensor along its four axes.
type Shape struct {
	N        int
	Bands    int
	Frames   int
	Channels int
}

func (s Shape) Size() int { return s.N * s.Bands * s.Frames * s.Channels }

// SampleSize is the number of values in one sample.
func (s Shape) SampleSize() int { return s.Bands * s.Frames * s.Channels }

func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", s.N, s.Bands, s.Frames, s.Channels)
}

// Tensor is a dense rank-4 float32 array laid out (N, bands, frames,
// channels) with the channel axis varying fastest.
type Tensor struct {
	shape Shape
	data  []float32
}

// NewTensor takes ownership of data. A nil data allocates zeroed storage.
func NewTensor(shape Shape, data []float32) (*Tensor, error) {
	if shape.N < 0 || shape.Bands < 1 || shape.Frames < 1 || shape.Channels < 1 {
		return nil, fmt.Errorf("%w: %s", ErrShape, shape)
	}

	if data == nil {
		data = make([]float32, shape.Size())
	}
	if len(data) != shape.Size() {
		return nil, fmt.Errorf("%w: %s needs %d values, got %d", ErrShape, shape, shape.Size(), len(data))
	}

	return &Tensor{shape: shape, data: data}, nil
}

func (t *Tensor) Shape() Shape { return t.shape }
func (t *Tensor) Len() int     { return t.shape.N }

func (t *Tensor) index(i, band, frame, ch int) int {
	s := t.shape
	return ((i*s.Bands+band)*s.Frames+frame)*s.Channels + ch
}

func (t *Tensor) At(i, band, frame, ch int) float32 {
	return t.data[t.index(i, band, frame, ch)]
}

func (t *Tensor) set(i, band, frame, ch int, v float32) {
	t.data[t.index(i, band, frame, ch)] = v
}

// Sample returns the values of sample i. The slice aliases the tensor and
// must not be modified.
func (t *Tensor) Sample(i int) []float32 {
	n := t.shape.SampleSize()
	return t.data[i*n : (i+1)*n]
}

// Data returns the backing slice. It must not be modified.
func (t *Tensor) Data() []float32 { return t.data }
