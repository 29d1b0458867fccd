// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/melfeat/utils"
)

// Resampler streams from src to a target sample rate using cubic
// interpolation. It works on interleaved samples and preserves the channel
// count. When downsampling, source frames first pass a windowed-sinc
// low-pass with its pass band edge at 0.45 of the target rate.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64 // source frames per output frame
	channels int

	// hist[1] is the source frame at index idx, hist[0] the one before it,
	// hist[2] and hist[3] the two after it. Edges are duplicated.
	hist [4][]float32
	idx  int
	pos  float64 // fractional position between hist[1] and hist[2]

	in     []float32
	inPos  int
	inLen  int
	srcEOF bool

	primed bool
	eof    bool // no more real frames
	loaded int  // real frames pulled from src
	last   int  // index of the last real frame, valid once eof is set
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	step := float64(src.SampleRate()) / float64(dstRate)
	if step > 1 {
		src = newLowPass(src, dstRate)
	}

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		step:     step,
		channels: channels,
		in:       make([]float32, 4096*channels),
	}

	for i := range r.hist {
		r.hist[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// next copies the next real source frame into dst. It reports false once the
// source is exhausted.
func (r *Resampler) next(dst []float32) (bool, error) {
	empty := 0
	for r.inPos >= r.inLen {
		if r.srcEOF {
			if !r.eof {
				r.eof = true
				r.last = r.loaded - 1
			}
			return false, nil
		}

		n, err := r.src.ReadSamples(r.in)
		r.inLen = n - n%r.channels
		r.inPos = 0

		if err == io.EOF {
			r.srcEOF = true
		} else if err != nil {
			return false, fmt.Errorf("%w", err)
		}

		if n == 0 {
			empty++
			if empty > 100 {
				return false, io.ErrNoProgress
			}
		}
	}

	copy(dst, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels
	r.loaded++

	return true, nil
}

// fill loads slot i with the next frame, duplicating slot i-1 at the end of
// the stream.
func (r *Resampler) fill(i int) error {
	ok, err := r.next(r.hist[i])
	if err != nil {
		return err
	}
	if !ok {
		copy(r.hist[i], r.hist[i-1])
	}

	return nil
}

func (r *Resampler) prime() error {
	ok, err := r.next(r.hist[1])
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}
	copy(r.hist[0], r.hist[1])

	if err := r.fill(2); err != nil {
		return err
	}
	if err := r.fill(3); err != nil {
		return err
	}

	r.primed = true

	return nil
}

func (r *Resampler) advance() error {
	first := r.hist[0]
	r.hist[0], r.hist[1], r.hist[2] = r.hist[1], r.hist[2], r.hist[3]
	r.hist[3] = first
	r.idx++

	return r.fill(3)
}

func (r *Resampler) done() bool {
	if !r.eof {
		return false
	}

	return r.idx > r.last || (r.idx == r.last && r.pos > 0)
}

// ReadSamples produces dst samples at the target rate.
// dst length must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	for written < len(dst) {
		for r.pos >= 1 {
			r.pos--
			if err := r.advance(); err != nil {
				return written, err
			}
		}

		if r.done() {
			break
		}

		t := float32(r.pos)
		for c := range r.channels {
			dst[written+c] = utils.CubicInterpolate(r.hist[0][c], r.hist[1][c], r.hist[2][c], r.hist[3][c], t)
		}

		written += r.channels
		r.pos += r.step
	}

	if r.done() {
		return written, io.EOF
	}

	return written, nil
}
