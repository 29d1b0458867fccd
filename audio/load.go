// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// DefaultSampleRate is the rate clips are brought to before feature
// extraction unless configured otherwise.
const DefaultSampleRate = 22050

// Waveform is a fully decoded mono signal.
type Waveform struct {
	Samples    []float32
	SampleRate int
}

func (w *Waveform) Len() int { return len(w.Samples) }

func (w *Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}

	return time.Duration(len(w.Samples)) * time.Second / time.Duration(w.SampleRate)
}

// ReadAll drains src and returns every sample it produced.
func ReadAll(src Source) ([]float32, error) {
	var out []float32
	buf := make([]float32, 4096*max(src.Channels(), 1))
	empty := 0

	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
			empty = 0
		} else if err == nil {
			empty++
			if empty > 100 {
				return nil, io.ErrNoProgress
			}
		}

		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
	}
}

// Load downmixes src to mono, resamples it to targetRate (0 keeps the
// source rate) and reads it to the end.
func Load(src Source, targetRate int) (*Waveform, error) {
	if src.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, src.SampleRate())
	}
	if targetRate < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, targetRate)
	}

	var pipeline Source = NewMonoMixer(src)
	rate := src.SampleRate()

	if targetRate > 0 && targetRate != rate {
		pipeline = NewResampler(pipeline, targetRate)
		rate = targetRate
	}

	samples, err := ReadAll(pipeline)
	if err != nil {
		return nil, err
	}

	return &Waveform{Samples: samples, SampleRate: rate}, nil
}

// FileLoader decodes audio files with the decoder registered for their
// extension and returns mono waveforms at SampleRate.
type FileLoader struct {
	Registry   *Registry
	SampleRate int
}

func NewFileLoader(reg *Registry, sampleRate int) *FileLoader {
	return &FileLoader{Registry: reg, SampleRate: sampleRate}
}

func (l *FileLoader) Load(ctx context.Context, path string) (*Waveform, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dec, ok := l.Registry.ForPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	defer src.Close()

	w, err := Load(src, l.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return w, nil
}
