// SPDX-License-Identifier: EPL-2.0

package clip

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ik5/melfeat/audio"
	"github.com/ik5/melfeat/spectral"
	"github.com/ik5/melfeat/window"
)

// HopLength is the STFT hop in samples. Window lengths are a multiple of it
// so every window maps onto exactly the configured number of frames.
const HopLength = spectral.DefaultHopLength

// WindowSize returns the window length in samples that yields frames STFT
// columns.
func WindowSize(frames int) int {
	return HopLength * (frames - 1)
}

// Loader decodes one file into a mono waveform.
type Loader interface {
	Load(ctx context.Context, path string) (*audio.Waveform, error)
}

// Sample is the log-mel spectrogram of one window with the clip label.
type Sample struct {
	Spec  *spectral.Spectrogram
	Label int
}

// Processor turns one audio file into labeled log-mel samples. It is safe for
// concurrent use.
type Processor struct {
	loader     Loader
	bands      int
	frames     int
	windowSize int

	mtx        sync.Mutex
	extractors map[int]*spectral.Extractor
}

// NewProcessor validates the shape. frames must leave room for the delta
// filter applied later on the assembled dataset.
func NewProcessor(loader Loader, bands, frames int) (*Processor, error) {
	switch {
	case loader == nil:
		return nil, fmt.Errorf("%w: nil loader", ErrInvalidConfig)
	case bands < 1:
		return nil, fmt.Errorf("%w: bands %d must be positive", ErrInvalidConfig, bands)
	case frames < spectral.DefaultDeltaWidth:
		return nil, fmt.Errorf("%w: frames %d below delta width %d", ErrInvalidConfig, frames, spectral.DefaultDeltaWidth)
	}

	size := WindowSize(frames)
	if err := window.Validate(size); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &Processor{
		loader:     loader,
		bands:      bands,
		frames:     frames,
		windowSize: size,
		extractors: make(map[int]*spectral.Extractor),
	}, nil
}

func (p *Processor) Bands() int      { return p.bands }
func (p *Processor) Frames() int     { return p.frames }
func (p *Processor) WindowSize() int { return p.windowSize }

// Process parses the label, decodes path and returns one sample per full
// window. A clip shorter than one window yields no samples and no error.
func (p *Processor) Process(ctx context.Context, path string) ([]Sample, error) {
	label, err := ParseLabel(path)
	if err != nil {
		return nil, err
	}

	wf, err := p.loader.Load(ctx, path)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &DecodeError{Path: path, Err: err}
	}

	if wf.Len() < p.windowSize {
		return nil, nil
	}

	ext, err := p.extractor(wf.SampleRate)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	samples := make([]Sample, 0, window.Full(wf.Len(), p.windowSize))
	for start, end := range window.Windows(wf.Len(), p.windowSize) {
		if end > wf.Len() {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		spec, err := ext.LogMel(wf.Samples[start:end])
		if err != nil {
			return nil, fmt.Errorf("%s [%d:%d]: %w", path, start, end, err)
		}

		samples = append(samples, Sample{Spec: spec, Label: label})
	}

	return samples, nil
}

// extractor returns the shared extractor for sampleRate, building it on
// first use.
func (p *Processor) extractor(sampleRate int) (*spectral.Extractor, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if ext, ok := p.extractors[sampleRate]; ok {
		return ext, nil
	}

	ext, err := spectral.NewExtractor(spectral.DefaultConfig(sampleRate, p.bands))
	if err != nil {
		return nil, err
	}
	p.extractors[sampleRate] = ext

	return ext, nil
}
