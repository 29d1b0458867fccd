// SPDX-License-Identifier: EPL-2.0

package melfeat

import (
	"context"

	"github.com/ik5/melfeat/audio"
	"github.com/ik5/melfeat/clip"
	"github.com/ik5/melfeat/dataset"
)

// UrbanSound8K defaults.
const (
	DefaultBands      = 60
	DefaultFrames     = 41
	DefaultSampleRate = 22050
)

type Options struct {
	Bands  int
	Frames int
	// SampleRate every clip is resampled to. 0 keeps each file's own rate.
	SampleRate int
	// Registry selects decoders by extension. nil means NewRegistry().
	Registry *audio.Registry
	// Build is passed to dataset.NewBuilder unchanged.
	Build dataset.Options
}

func DefaultOptions() Options {
	return Options{
		Bands:      DefaultBands,
		Frames:     DefaultFrames,
		SampleRate: DefaultSampleRate,
	}
}

// NewProcessor builds the clip processor described by opts. Zero Bands and
// Frames take their defaults.
func NewProcessor(opts Options) (*clip.Processor, error) {
	if opts.Bands == 0 {
		opts.Bands = DefaultBands
	}
	if opts.Frames == 0 {
		opts.Frames = DefaultFrames
	}

	reg := opts.Registry
	if reg == nil {
		reg = NewRegistry()
	}

	return clip.NewProcessor(audio.NewFileLoader(reg, opts.SampleRate), opts.Bands, opts.Frames)
}

// ExtractFeatures builds the (N, bands, frames, 2) dataset for the clips in
// root/<folder>/ for every folder. See dataset.Builder.Build for the
// returned values.
func ExtractFeatures(ctx context.Context, root string, folders []string, opts Options) (*dataset.Dataset, *dataset.Report, error) {
	proc, err := NewProcessor(opts)
	if err != nil {
		return nil, nil, err
	}

	return dataset.NewBuilder(proc, opts.Build).Build(ctx, root, folders)
}
