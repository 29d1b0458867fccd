// SPDX-License-Identifier: EPL-2.0

// Package store persists datasets.
//
// An artifact is a single zstd-compressed msgpack document holding the
// tensor shape, the flat feature values, the labels and a Meta record.
// A YAML copy of Meta is written next to it as <artifact>.yaml so a run
// can be inspected without decoding the features.
package store
