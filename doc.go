// SPDX-License-Identifier: EPL-2.0

// Package melfeat turns a folder-organized audio corpus into a fixed-shape
// feature dataset for sound classification.
//
// Every clip under root/<folder>/ is decoded, downmixed to mono, resampled
// and cut into half-overlapping windows. Each full window becomes one
// sample: a log-scaled mel spectrogram (channel 0) and its delta along the
// time axis (channel 1). The class label is the second "-" separated token
// of the file name, as in UrbanSound8K's "7061-6-0-0.wav".
//
// # Quick Start
//
//	ds, rep, err := melfeat.ExtractFeatures(ctx, "UrbanSound8K/audio",
//		[]string{"fold1", "fold2"}, melfeat.DefaultOptions())
//	if err != nil {
//		// errors.Is(err, dataset.ErrEmptyDataset) when nothing usable was found
//	}
//	fmt.Println(ds.Features.Shape(), rep.Failed)
//
// # Packages
//
//   - audio: Source and Decoder interfaces, format registry, downmixing,
//     resampling and whole-file loading
//   - formats/wav, formats/aiff, formats/mp3, formats/vorbis: decoders
//   - window: the half-overlap window grid
//   - spectral: STFT, mel filterbank, decibel scaling and delta features
//   - clip: per-file processing into labeled log-mel samples
//   - dataset: enumeration, concurrent processing and tensor assembly
//   - store: compressed artifact and YAML metadata persistence
//   - report: SQLite record of per-file outcomes
//
// The melfeat command in cmd/melfeat wraps all of the above with
// configuration, logging and progress bars.
package melfeat
