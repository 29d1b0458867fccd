// SPDX-License-Identifier: EPL-2.0

package spectral

import (
	"errors"
	"math"
	"testing"
)

func TestDelta(t *testing.T) {
	t.Parallel()

	const frames = 12
	ramp := make([]float32, 2*frames)
	for f := range frames {
		ramp[f] = float32(3 * f)        // slope 3
		ramp[frames+f] = float32(7 - f) // slope -1
	}

	s, err := NewSpectrogram(2, frames, ramp)
	if err != nil {
		t.Fatal(err)
	}

	d, err := Delta(s, 9)
	if err != nil {
		t.Fatalf("Delta() error = %v", err)
	}

	for f := range frames {
		if got := d.At(0, f); math.Abs(float64(got-3)) > 1e-5 {
			t.Errorf("band 0 frame %d = %v, want 3", f, got)
		}
		if got := d.At(1, f); math.Abs(float64(got+1)) > 1e-5 {
			t.Errorf("band 1 frame %d = %v, want -1", f, got)
		}
	}
}

func TestDelta_EdgesAndInterior(t *testing.T) {
	t.Parallel()

	// Quadratic x[t] = t^2; interior derivative is exactly 2t, edges repeat
	// the first and last fitted slopes.
	const frames = 11
	data := make([]float32, frames)
	for f := range frames {
		data[f] = float32(f * f)
	}

	s, err := NewSpectrogram(1, frames, data)
	if err != nil {
		t.Fatal(err)
	}

	d, err := Delta(s, 5)
	if err != nil {
		t.Fatal(err)
	}

	want := []float32{4, 4, 4, 6, 8, 10, 12, 14, 16, 16, 16}
	for f, w := range want {
		if got := d.At(0, f); math.Abs(float64(got-w)) > 1e-4 {
			t.Errorf("frame %d = %v, want %v", f, got, w)
		}
	}
}

func TestDelta_Constant(t *testing.T) {
	t.Parallel()

	data := make([]float32, 3*41)
	for i := range data {
		data[i] = -42
	}

	s, err := NewSpectrogram(3, 41, data)
	if err != nil {
		t.Fatal(err)
	}

	d, err := Delta(s, DefaultDeltaWidth)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range d.Data() {
		if v != 0 {
			t.Fatalf("value %d = %v, want 0", i, v)
		}
	}
}

func TestDelta_InvalidWidth(t *testing.T) {
	t.Parallel()

	s, err := NewSpectrogram(1, 9, make([]float32, 9))
	if err != nil {
		t.Fatal(err)
	}

	for _, width := range []int{-1, 0, 1, 2, 4, 11} {
		if _, err := Delta(s, width); !errors.Is(err, ErrInvalidWidth) {
			t.Errorf("Delta(width=%d) error = %v, want %v", width, err, ErrInvalidWidth)
		}
	}

	if _, err := Delta(s, 9); err != nil {
		t.Errorf("Delta(width=9) on 9 frames error = %v", err)
	}
}
