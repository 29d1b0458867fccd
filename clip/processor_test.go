// SPDX-License-Identifier: EPL-2.0

package clip

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/ik5/melfeat/audio"
	"github.com/ik5/melfeat/formats/wav"
	"github.com/ik5/melfeat/internal/audiotest"
)

// fakeLoader serves synthetic waveforms keyed by base name.
type fakeLoader struct {
	waves map[string]*audio.Waveform
	err   error
	calls atomic.Int32
}

func (l *fakeLoader) Load(ctx context.Context, path string) (*audio.Waveform, error) {
	l.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.err != nil {
		return nil, l.err
	}

	w, ok := l.waves[filepath.Base(path)]
	if !ok {
		return nil, errors.New("no such clip")
	}

	return w, nil
}

func tone(n int) *audio.Waveform {
	s := make([]float32, n)
	for i := range s {
		s[i] = float32(0.5 * math.Sin(2*math.Pi*440*float64(i)/22050))
	}

	return &audio.Waveform{Samples: s, SampleRate: 22050}
}

func TestWindowSize(t *testing.T) {
	t.Parallel()

	if got := WindowSize(41); got != 20480 {
		t.Errorf("WindowSize(41) = %d, want 20480", got)
	}
	if got := WindowSize(9); got != 4096 {
		t.Errorf("WindowSize(9) = %d, want 4096", got)
	}
}

func TestNewProcessor(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{}

	tests := []struct {
		name    string
		loader  Loader
		bands   int
		frames  int
		wantErr bool
	}{
		{name: "defaults", loader: loader, bands: 60, frames: 41},
		{name: "minimum frames", loader: loader, bands: 1, frames: 9},
		{name: "nil loader", loader: nil, bands: 60, frames: 41, wantErr: true},
		{name: "zero bands", loader: loader, bands: 0, frames: 41, wantErr: true},
		{name: "frames below delta width", loader: loader, bands: 60, frames: 8, wantErr: true},
		{name: "one frame", loader: loader, bands: 60, frames: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := NewProcessor(tt.loader, tt.bands, tt.frames)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("NewProcessor() error = %v, want %v", err, ErrInvalidConfig)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProcessor() error = %v", err)
			}
			if p.WindowSize() != WindowSize(tt.frames) {
				t.Errorf("WindowSize() = %d, want %d", p.WindowSize(), WindowSize(tt.frames))
			}
		})
	}
}

func TestProcessor_Process(t *testing.T) {
	t.Parallel()

	size := WindowSize(41)
	loader := &fakeLoader{waves: map[string]*audio.Waveform{
		"7061-6-0-0.wav": tone(45000),
		"1-2-0-0.wav":    tone(size),
		"1-3-0-0.wav":    tone(size - 1),
		"1-4-0-0.wav":    tone(size + size/2),
		"1-5-0-0.wav":    tone(0),
	}}

	p, err := NewProcessor(loader, 60, 41)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		wantN     int
		wantLabel int
	}{
		{name: "7061-6-0-0.wav", wantN: 3, wantLabel: 6},
		{name: "1-2-0-0.wav", wantN: 1, wantLabel: 2},
		{name: "1-3-0-0.wav", wantN: 0},
		{name: "1-4-0-0.wav", wantN: 2, wantLabel: 4},
		{name: "1-5-0-0.wav", wantN: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			samples, err := p.Process(context.Background(), filepath.Join("fold1", tt.name))
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if len(samples) != tt.wantN {
				t.Fatalf("Process() returned %d samples, want %d", len(samples), tt.wantN)
			}

			for i, s := range samples {
				if s.Label != tt.wantLabel {
					t.Errorf("sample %d label = %d, want %d", i, s.Label, tt.wantLabel)
				}
				if s.Spec.Bands() != 60 || s.Spec.Frames() != 41 {
					t.Errorf("sample %d shape = %dx%d, want 60x41", i, s.Spec.Bands(), s.Spec.Frames())
				}
			}
		})
	}
}

func TestProcessor_Errors(t *testing.T) {
	t.Parallel()

	t.Run("bad name skips loading", func(t *testing.T) {
		t.Parallel()

		loader := &fakeLoader{}
		p, err := NewProcessor(loader, 60, 41)
		if err != nil {
			t.Fatal(err)
		}

		if _, err := p.Process(context.Background(), "badname.wav"); !errors.Is(err, ErrLabelParse) {
			t.Errorf("Process() error = %v, want %v", err, ErrLabelParse)
		}
		if n := loader.calls.Load(); n != 0 {
			t.Errorf("loader called %d times, want 0", n)
		}
	})

	t.Run("decode failure", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("corrupt header")
		p, err := NewProcessor(&fakeLoader{err: boom}, 60, 41)
		if err != nil {
			t.Fatal(err)
		}

		_, err = p.Process(context.Background(), "fold1/7061-6-0-0.wav")
		if !errors.Is(err, ErrDecode) || !errors.Is(err, boom) {
			t.Fatalf("Process() error = %v, want %v wrapping %v", err, ErrDecode, boom)
		}

		var de *DecodeError
		if !errors.As(err, &de) || de.Path != "fold1/7061-6-0-0.wav" {
			t.Errorf("DecodeError = %+v, want path fold1/7061-6-0-0.wav", de)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		p, err := NewProcessor(&fakeLoader{}, 60, 41)
		if err != nil {
			t.Fatal(err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = p.Process(ctx, "7061-6-0-0.wav")
		if !errors.Is(err, context.Canceled) || errors.Is(err, ErrDecode) {
			t.Errorf("Process() error = %v, want bare %v", err, context.Canceled)
		}
	})
}

func TestProcessor_WAVFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fold1", "7061-6-0-0.wav")
	audiotest.WriteWAV(t, path, 22050, audiotest.Tone(45000, 22050, 440, 0.5))

	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})

	p, err := NewProcessor(audio.NewFileLoader(reg, 22050), 60, 41)
	if err != nil {
		t.Fatal(err)
	}

	samples, err := p.Process(context.Background(), path)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("Process() returned %d samples, want 3", len(samples))
	}
	for _, s := range samples {
		if s.Label != 6 {
			t.Errorf("label = %d, want 6", s.Label)
		}
	}
}

func TestProcessor_Deterministic(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{waves: map[string]*audio.Waveform{"0-1-0-0.wav": tone(30000)}}
	p, err := NewProcessor(loader, 40, 20)
	if err != nil {
		t.Fatal(err)
	}

	first, err := p.Process(context.Background(), "0-1-0-0.wav")
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Process(context.Background(), "0-1-0-0.wav")
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != len(second) || len(first) == 0 {
		t.Fatalf("runs returned %d and %d samples", len(first), len(second))
	}
	for i := range first {
		a, b := first[i].Spec.Data(), second[i].Spec.Data()
		for j := range a {
			if a[j] != b[j] {
				t.Fatalf("sample %d value %d differs: %v vs %v", i, j, a[j], b[j])
			}
		}
	}
}
