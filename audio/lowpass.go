// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/dsp/window"
)

// lowPassCutoff is the pass band edge relative to the output rate. The
// Blackman transition band ends at the output Nyquist frequency.
const lowPassCutoff = 0.45

// lowPass is a zero-phase windowed-sinc FIR filter in front of the
// resampler. Output frame k is centered on input frame k, so the stream
// keeps its length and timing. The first and last frames are repeated past
// the edges, which keeps a constant signal constant.
type lowPass struct {
	src      Source
	channels int
	taps     []float32
	half     int

	win    []float32 // len(taps) frames, interleaved
	queued int       // real frames at or after the center of win
	last   []float32

	in     []float32
	inPos  int
	inLen  int
	srcEOF bool

	primed bool
}

// lowPassKernel returns a unity-gain Blackman windowed sinc with cutoff fc in
// cycles per input sample. Its length grows with 1/fc so the transition
// band stays a fixed fraction of the output rate.
func lowPassKernel(fc float64) []float32 {
	half := int(math.Ceil(16 / fc))
	n := 2*half + 1

	h := make([]float64, n)
	for i := range h {
		x := float64(i - half)
		if x == 0 {
			h[i] = 2 * fc
			continue
		}
		h[i] = math.Sin(2*math.Pi*fc*x) / (math.Pi * x)
	}
	window.Blackman(h)

	var sum float64
	for _, v := range h {
		sum += v
	}

	taps := make([]float32, n)
	for i, v := range h {
		taps[i] = float32(v / sum)
	}

	return taps
}

func newLowPass(src Source, dstRate int) *lowPass {
	channels := src.Channels()
	taps := lowPassKernel(lowPassCutoff * float64(dstRate) / float64(src.SampleRate()))

	return &lowPass{
		src:      src,
		channels: channels,
		taps:     taps,
		half:     len(taps) / 2,
		win:      make([]float32, len(taps)*channels),
		last:     make([]float32, channels),
		in:       make([]float32, 4096*channels),
	}
}

func (l *lowPass) SampleRate() int { return l.src.SampleRate() }
func (l *lowPass) Channels() int   { return l.channels }
func (l *lowPass) Close() error    { return l.src.Close() }

// read copies the next source frame into dst, reporting false at the end
// of the stream.
func (l *lowPass) read(dst []float32) (bool, error) {
	empty := 0
	for l.inPos >= l.inLen {
		if l.srcEOF {
			return false, nil
		}

		n, err := l.src.ReadSamples(l.in)
		l.inLen = n - n%l.channels
		l.inPos = 0

		if err == io.EOF {
			l.srcEOF = true
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

	copy(dst, l.in[l.inPos:l.inPos+l.channels])
	l.inPos += l.channels

	return true, nil
}

// push shifts the window by one frame and appends the next source frame, or
// the last one again once the source is exhausted.
func (l *lowPass) push() error {
	copy(l.win, l.win[l.channels:])
	tail := l.win[len(l.win)-l.channels:]

	ok, err := l.read(tail)
	if err != nil {
		return err
	}
	if !ok {
		copy(tail, l.last)
		return nil
	}

	copy(l.last, tail)
	l.queued++

	return nil
}

// prime fills the window around the first frame: copies of it to the left,
// the following frames to the right.
func (l *lowPass) prime() error {
	l.primed = true

	ok, err := l.read(l.last)
	if err != nil || !ok {
		return err
	}

	for i := 0; i < len(l.win); i += l.channels {
		copy(l.win[i:i+l.channels], l.last)
	}
	l.queued = 1

	for i := l.half + 1; i < len(l.taps); i++ {
		slot := l.win[i*l.channels : (i+1)*l.channels]

		ok, err := l.read(slot)
		if err != nil {
			return err
		}
		if !ok {
			for ; i < len(l.taps); i++ {
				copy(l.win[i*l.channels:(i+1)*l.channels], l.last)
			}
			break
		}

		copy(l.last, slot)
		l.queued++
	}

	return nil
}

func (l *lowPass) ReadSamples(dst []float32) (int, error) {
	if len(dst)%l.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !l.primed {
		if err := l.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	for written+l.channels <= len(dst) && l.queued > 0 {
		out := dst[written : written+l.channels]
		clear(out)
		for j, h := range l.taps {
			frame := l.win[j*l.channels : (j+1)*l.channels]
			for c, v := range frame {
				out[c] += h * v
			}
		}

		written += l.channels
		l.queued--

		if err := l.push(); err != nil {
			return written, err
		}
	}

	if l.queued == 0 {
		return written, io.EOF
	}

	return written, nil
}
