// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ik5/melfeat"
	"github.com/ik5/melfeat/dataset"
	"github.com/ik5/melfeat/internal/config"
	"github.com/ik5/melfeat/internal/logging"
	"github.com/ik5/melfeat/internal/progress"
	"github.com/ik5/melfeat/report"
	"github.com/ik5/melfeat/spectral"
	"github.com/ik5/melfeat/store"
)

func newExtractCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract features from root/<folder>/ and save the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("no-progress") {
				v.Set(config.KeyProgress, false)
			}

			configFile, _ := cmd.Flags().GetString("config")

			return runExtract(cmd.Context(), v, configFile, cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.String("root", "", "dataset root directory")
	f.StringSlice("folders", config.DefaultFolders(), "sub-folders of root to process, in order")
	f.String("pattern", "*.wav", "file name glob inside each folder")
	f.Int("bands", melfeat.DefaultBands, "mel bands")
	f.Int("frames", melfeat.DefaultFrames, "frames per window")
	f.Int("sample-rate", melfeat.DefaultSampleRate, "resample rate in Hz, 0 keeps the native rate")
	f.Int("workers", 0, "concurrent files, 0 means one per CPU")
	f.Bool("fail-fast", false, "abort on the first file that cannot be processed")
	f.String("output", "urbansound8k.msgpack.zst", "dataset artifact path")
	f.String("report", "", "SQLite file receiving per-file outcomes")
	f.Bool("no-progress", false, "disable progress bars")

	bind(v, cmd, map[string]string{
		config.KeyRoot:       "root",
		config.KeyFolders:    "folders",
		config.KeyPattern:    "pattern",
		config.KeyBands:      "bands",
		config.KeyFrames:     "frames",
		config.KeySampleRate: "sample-rate",
		config.KeyWorkers:    "workers",
		config.KeyFailFast:   "fail-fast",
		config.KeyOutput:     "output",
		config.KeyReport:     "report",
	}, false)

	return cmd
}

func runExtract(ctx context.Context, v *viper.Viper, configFile string, stderr io.Writer) error {
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return err
	}

	if err := logging.Init(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		JSON:    cfg.Log.JSON,
		Console: stderr,
	}); err != nil {
		return err
	}

	reg := melfeat.NewRegistry()
	formats := reg.Formats()
	slices.Sort(formats)

	logging.Debug(logging.CategoryApp, "configuration loaded", logrus.Fields{
		"formats":     strings.Join(formats, ","),
		"root":        cfg.Root,
		"folders":     strings.Join(cfg.Folders, ","),
		"pattern":     cfg.Pattern,
		"bands":       cfg.Bands,
		"frames":      cfg.Frames,
		"sample_rate": cfg.SampleRate,
		"workers":     cfg.Workers,
		"fail_fast":   cfg.FailFast,
	})

	opts := melfeat.Options{
		Bands:      cfg.Bands,
		Frames:     cfg.Frames,
		SampleRate: cfg.SampleRate,
		Registry:   reg,
		Build: dataset.Options{
			Workers:  cfg.Workers,
			FailFast: cfg.FailFast,
			Pattern:  cfg.Pattern,
			Logger:   logging.For(logging.CategoryDataset),
		},
	}

	var tracker *progress.Tracker
	if cfg.Progress {
		tracker = progress.New(stderr)
		opts.Build = tracker.Options(opts.Build)
	}

	started := time.Now()
	ds, rep, err := melfeat.ExtractFeatures(ctx, cfg.Root, cfg.Folders, opts)
	if tracker != nil {
		tracker.Wait()
	}

	if cfg.Report != "" {
		run := report.Run{
			StartedAt:  started,
			FinishedAt: time.Now(),
			Root:       cfg.Root,
			Folders:    cfg.Folders,
			Bands:      cfg.Bands,
			Frames:     cfg.Frames,
			SampleRate: cfg.SampleRate,
		}
		if err == nil {
			run.Output = cfg.Output
		}
		if rerr := writeReport(ctx, cfg.Report, run, rep, err); rerr != nil {
			logging.Error(logging.CategoryReport, "failed to write run report", logrus.Fields{
				"path":  cfg.Report,
				"error": rerr,
			})
		}
	}

	if err != nil {
		return err
	}

	if rep.Failed > 0 {
		logging.Warning(logging.CategoryDataset, "some clips were skipped", logrus.Fields{
			"failed": rep.Failed,
			"clips":  rep.Clips,
		})
	}

	meta, err := store.Save(cfg.Output, ds, store.Meta{
		Root:       cfg.Root,
		Folders:    cfg.Folders,
		Pattern:    cfg.Pattern,
		SampleRate: cfg.SampleRate,
		Bands:      cfg.Bands,
		Frames:     cfg.Frames,
		NFFT:       spectral.DefaultNFFT,
		HopLength:  spectral.DefaultHopLength,
		DeltaWidth: spectral.DefaultDeltaWidth,
		Clips:      rep.Clips,
		Failed:     rep.Failed,
	})
	if err != nil {
		return fmt.Errorf("saving dataset: %w", err)
	}

	logging.Info(logging.CategoryStore, "dataset written", logrus.Fields{
		"path":    cfg.Output,
		"sidecar": store.SidecarPath(cfg.Output),
		"shape":   ds.Features.Shape().String(),
	})

	logging.Info(logging.CategoryApp, "extraction finished", logrus.Fields{
		"samples":   rep.Samples,
		"clips":     rep.Clips,
		"failed":    rep.Failed,
		"too_short": rep.TooShort(),
		"labels":    histogram(ds.Classes(), meta.LabelCounts),
		"elapsed":   time.Since(started).Round(time.Millisecond).String(),
	})

	return nil
}

func writeReport(ctx context.Context, path string, run report.Run, rep *dataset.Report, runErr error) error {
	db, err := report.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	var results []dataset.FileResult
	if rep != nil {
		run.Clips = rep.Clips
		run.Failed = rep.Failed
		run.Samples = rep.Samples
		results = rep.Results
	}
	if runErr != nil {
		run.Err = runErr.Error()
	}

	id, err := db.Record(context.WithoutCancel(ctx), run, results)
	if err != nil {
		return err
	}

	logging.Info(logging.CategoryReport, "run recorded", logrus.Fields{"path": path, "run": id})

	return nil
}

// histogram renders label counts as "0:12 3:40".
func histogram(classes []int, counts map[int]int) string {
	parts := make([]string, len(classes))
	for i, c := range classes {
		parts[i] = fmt.Sprintf("%d:%d", c, counts[c])
	}

	return strings.Join(parts, " ")
}
