// SPDX-License-Identifier: EPL-2.0

package spectral

import (
	"errors"
	"testing"
)

func TestNewSpectrogram(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		bands   int
		frames  int
		data    []float32
		wantErr bool
	}{
		{name: "valid", bands: 2, frames: 3, data: make([]float32, 6)},
		{name: "short data", bands: 2, frames: 3, data: make([]float32, 5), wantErr: true},
		{name: "long data", bands: 2, frames: 3, data: make([]float32, 7), wantErr: true},
		{name: "zero bands", bands: 0, frames: 3, data: nil, wantErr: true},
		{name: "zero frames", bands: 2, frames: 0, data: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := NewSpectrogram(tt.bands, tt.frames, tt.data)
			if tt.wantErr {
				if !errors.Is(err, ErrShape) {
					t.Errorf("NewSpectrogram() error = %v, want %v", err, ErrShape)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewSpectrogram() error = %v", err)
			}
			if s.Bands() != tt.bands || s.Frames() != tt.frames {
				t.Errorf("shape = %dx%d, want %dx%d", s.Bands(), s.Frames(), tt.bands, tt.frames)
			}
		})
	}
}

func TestSpectrogram_Accessors(t *testing.T) {
	t.Parallel()

	s, err := NewSpectrogram(2, 3, []float32{1, 2, 3, 4, 9, 6})
	if err != nil {
		t.Fatal(err)
	}

	if got := s.At(1, 0); got != 4 {
		t.Errorf("At(1, 0) = %v, want 4", got)
	}
	if got := s.At(0, 2); got != 3 {
		t.Errorf("At(0, 2) = %v, want 3", got)
	}

	row := s.Row(1)
	if len(row) != 3 || row[1] != 9 {
		t.Errorf("Row(1) = %v, want [4 9 6]", row)
	}
	if got := s.Max(); got != 9 {
		t.Errorf("Max() = %v, want 9", got)
	}
	if len(s.Data()) != 6 {
		t.Errorf("len(Data()) = %d, want 6", len(s.Data()))
	}
}
