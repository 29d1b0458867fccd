// SPDX-License-Identifier: EPL-2.0

// Package pcm adapts go-audio integer PCM decoders to audio.Source.
package pcm

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/melfeat/utils"
)

// Reader is the streaming part of the go-audio wav and aiff decoders.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source streams normalized float32 samples out of a Reader.
type Source struct {
	r        Reader
	format   *goaudio.Format
	bitDepth int
	unsigned bool // 8-bit WAV stores unsigned bytes
	buf      *goaudio.IntBuffer
	eof      bool
}

// NewSource wraps r. unsigned8 must be set for 8-bit WAV data, which go-audio
// hands out as raw unsigned bytes.
func NewSource(r Reader, format *goaudio.Format, bitDepth int, unsigned8 bool) *Source {
	return &Source{
		r:        r,
		format:   format,
		bitDepth: bitDepth,
		unsigned: unsigned8 && bitDepth == 8,
	}
}

func (s *Source) SampleRate() int { return s.format.SampleRate }
func (s *Source) Channels() int   { return s.format.NumChannels }
func (s *Source) Close() error    { return nil }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if s.eof {
		return 0, io.EOF
	}

	if s.buf == nil || cap(s.buf.Data) < len(dst) {
		s.buf = &goaudio.IntBuffer{
			Data:           make([]int, len(dst)),
			Format:         s.format,
			SourceBitDepth: s.bitDepth,
		}
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.r.PCMBuffer(s.buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, fmt.Errorf("%w", err)
	}
	if n == 0 {
		s.eof = true
		return 0, io.EOF
	}

	data := s.buf.Data[:n]
	if s.unsigned {
		for i := range data {
			data[i] -= 128
		}
	}
	utils.IntToFloat32(dst, data, s.bitDepth)

	if n < len(dst) || err != nil {
		s.eof = true
		return n, io.EOF
	}

	return n, nil
}

// ReadSeeker returns r as an io.ReadSeeker, buffering it in memory when it
// cannot seek. go-audio decoders require seeking.
func ReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffering input: %w", err)
	}

	return bytes.NewReader(data), nil
}
