// SPDX-License-Identifier: EPL-2.0

package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/melfeat/clip"
	"github.com/ik5/melfeat/spectral"
)

// ClipProcessor turns one file into labeled spectrogram samples.
// *clip.Processor implements it.
type ClipProcessor interface {
	Process(ctx context.Context, path string) ([]clip.Sample, error)
	Bands() int
	Frames() int
}

type Options struct {
	// Workers bounds concurrent file processing. 0 means runtime.NumCPU().
	Workers int
	// FailFast aborts the run on the first file error instead of skipping
	// the file.
	FailFast bool
	// Pattern selects files inside each folder. Empty means DefaultPattern.
	Pattern string
	Logger  logrus.FieldLogger
	// OnFile is called once per clip as soon as it is processed. It may be
	// called from several goroutines at once.
	OnFile func(FileResult)
	// OnClips receives the enumerated clips before processing starts.
	OnClips func([]Clip)
}

type Builder struct {
	proc ClipProcessor
	opts Options
	log  logrus.FieldLogger
}

func NewBuilder(proc ClipProcessor, opts Options) *Builder {
	if opts.Pattern == "" {
		opts.Pattern = DefaultPattern
	}

	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	return &Builder{proc: proc, opts: opts, log: log}
}

func (b *Builder) validate(root string, folders []string) error {
	switch {
	case b.proc == nil:
		return fmt.Errorf("%w: nil clip processor", ErrInvalidConfig)
	case b.opts.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, b.opts.Workers)
	case len(folders) == 0:
		return fmt.Errorf("%w: no folders", ErrInvalidConfig)
	case b.proc.Frames() < spectral.DefaultDeltaWidth:
		return fmt.Errorf("%w: %d frames below delta width %d", ErrInvalidConfig, b.proc.Frames(), spectral.DefaultDeltaWidth)
	}

	fi, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: root: %w", ErrInvalidConfig, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: root %s is not a directory", ErrInvalidConfig, root)
	}

	return nil
}

func (b *Builder) workers() int {
	if b.opts.Workers > 0 {
		return b.opts.Workers
	}

	return runtime.NumCPU()
}

// Build processes every clip under root/<folder>/<pattern> and assembles the
// dataset. Samples are ordered by folder, then path, then window. The
// returned Report is non-nil whenever enumeration succeeded, including
// when err is an *EmptyDatasetError.
func (b *Builder) Build(ctx context.Context, root string, folders []string) (*Dataset, *Report, error) {
	if err := b.validate(root, folders); err != nil {
		return nil, nil, err
	}

	clips, err := Enumerate(root, folders, b.opts.Pattern)
	if err != nil {
		return nil, nil, err
	}

	report := &Report{Clips: len(clips), Results: make([]FileResult, len(clips))}
	if len(clips) == 0 {
		return nil, report, &EmptyDatasetError{Cause: CauseNoClips}
	}

	b.log.WithFields(logrus.Fields{
		"root":    root,
		"folders": len(folders),
		"clips":   len(clips),
		"workers": b.workers(),
	}).Info("extracting features")

	if b.opts.OnClips != nil {
		b.opts.OnClips(clips)
	}

	samples, err := b.process(ctx, clips, report)
	report.tally()
	if err != nil {
		return nil, report, err
	}

	if report.Samples == 0 {
		cause := CauseTooShort
		if report.Failed == report.Clips {
			cause = CauseAllFailed
		}
		return nil, report, &EmptyDatasetError{Cause: cause, Clips: report.Clips, Failed: report.Failed}
	}

	ds, err := b.assemble(ctx, samples, report.Samples)
	if err != nil {
		return nil, report, err
	}

	b.log.WithFields(logrus.Fields{
		"samples":   report.Samples,
		"failed":    report.Failed,
		"too_short": report.TooShort(),
		"shape":     ds.Features.Shape().String(),
	}).Info("dataset assembled")

	return ds, report, nil
}

// process runs the clip processor over clips in a bounded pool. Each worker
// writes only its own slot, so results keep enumeration order.
func (b *Builder) process(ctx context.Context, clips []Clip, report *Report) ([][]clip.Sample, error) {
	samples := make([][]clip.Sample, len(clips))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers())

	for i, c := range clips {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			out, err := b.proc.Process(gctx, c.Path)
			if cancelled(err) {
				// left unrecorded: the clip was interrupted, not rejected
				return err
			}

			res := FileResult{Clip: c, Label: -1, Windows: len(out), Err: err}
			if label, perr := clip.ParseLabel(c.Path); perr == nil {
				res.Label = label
			}

			samples[i] = out
			report.Results[i] = res
			b.observe(res)

			switch {
			case err == nil:
				return nil
			case b.opts.FailFast:
				return fmt.Errorf("%s: %w", c.Path, err)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}

func cancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (b *Builder) observe(res FileResult) {
	fields := logrus.Fields{
		"folder": res.Clip.Folder,
		"path":   res.Clip.Path,
	}

	switch {
	case res.Failed():
		b.log.WithFields(fields).WithError(res.Err).Warn("skipping clip")
	case res.Windows == 0:
		b.log.WithFields(fields).Debug("clip shorter than one window")
	default:
		b.log.WithFields(fields).WithField("windows", res.Windows).Debug("clip processed")
	}

	if b.opts.OnFile != nil {
		b.opts.OnFile(res)
	}
}

// assemble stacks the log-mel spectrograms into channel 0 and fills
// channel 1 with their deltas in parallel.
func (b *Builder) assemble(ctx context.Context, perFile [][]clip.Sample, n int) (*Dataset, error) {
	bands, frames := b.proc.Bands(), b.proc.Frames()

	features, err := NewTensor(Shape{N: n, Bands: bands, Frames: frames, Channels: Channels}, nil)
	if err != nil {
		return nil, err
	}

	specs := make([]*spectral.Spectrogram, 0, n)
	labels := make([]int, 0, n)

	for _, fileSamples := range perFile {
		for _, s := range fileSamples {
			if s.Spec.Bands() != bands || s.Spec.Frames() != frames {
				return nil, fmt.Errorf("%w: sample %dx%d, want %dx%d", ErrShape, s.Spec.Bands(), s.Spec.Frames(), bands, frames)
			}

			i := len(specs)
			for band := range bands {
				for frame, v := range s.Spec.Row(band) {
					features.set(i, band, frame, ChannelMel, v)
				}
			}

			specs = append(specs, s.Spec)
			labels = append(labels, s.Label)
		}
	}

	if err := b.deltas(ctx, features, specs); err != nil {
		return nil, err
	}

	return New(features, labels)
}

func (b *Builder) deltas(ctx context.Context, features *Tensor, specs []*spectral.Spectrogram) error {
	workers := b.workers()
	chunk := max(1, (len(specs)+workers-1)/workers)

	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < len(specs); lo += chunk {
		hi := min(lo+chunk, len(specs))

		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}

				d, err := spectral.Delta(specs[i], spectral.DefaultDeltaWidth)
				if err != nil {
					return fmt.Errorf("delta of sample %d: %w", i, err)
				}

				for band := range d.Bands() {
					for frame, v := range d.Row(band) {
						features.set(i, band, frame, ChannelDelta, v)
					}
				}
			}

			return nil
		})
	}

	return g.Wait()
}
