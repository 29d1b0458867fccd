// SPDX-License-Identifier: EPL-2.0

// Package dataset assembles per-clip log-mel samples into a single feature
// tensor with aligned labels.
//
// A Builder enumerates root/<folder>/<pattern> for each folder, runs a
// ClipProcessor over the files in a bounded worker pool and stacks the
// results in a deterministic order: folder order as given, file paths
// sorted within a folder, windows in time order. The tensor has shape
// (N, bands, frames, 2); channel 0 holds the log-mel spectrogram and
// channel 1 its delta along the frame axis.
//
// Files that fail are recorded in the Report and skipped unless
// Options.FailFast is set. A run that yields no sample at all returns an
// *EmptyDatasetError whose Cause tells the three situations apart.
package dataset
