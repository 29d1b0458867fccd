// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams with github.com/jfreymuth/oggvorbis.
//
// Vorbis decodes to float32 natively, so samples are passed through without
// rescaling. Channel count and sample rate are those of the stream.
package vorbis
