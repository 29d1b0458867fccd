// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files into an audio.Source using
// github.com/go-audio/aiff. Signed integer PCM at 8, 16, 24 and 32 bits is
// supported; samples come out interleaved in [-1, 1].
package aiff
