// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"
	"testing"

	"github.com/ik5/melfeat/internal/audiotest"
)

func TestLowPassKernel(t *testing.T) {
	t.Parallel()

	for _, fc := range []float64{0.225, 0.2067, 0.1} {
		taps := lowPassKernel(fc)
		if len(taps)%2 != 1 {
			t.Fatalf("fc %v: %d taps, want an odd count", fc, len(taps))
		}

		var sum float64
		for i, v := range taps {
			sum += float64(v)
			if mirror := taps[len(taps)-1-i]; v != mirror {
				t.Fatalf("fc %v: tap %d = %v, mirror = %v", fc, i, v, mirror)
			}
		}
		if math.Abs(sum-1) > 1e-5 {
			t.Errorf("fc %v: DC gain = %v, want 1", fc, sum)
		}
	}

	if a, b := len(lowPassKernel(0.225)), len(lowPassKernel(0.1)); b <= a {
		t.Errorf("lower cutoff gave %d taps, not more than %d", b, a)
	}
}

func TestLowPass_KeepsLengthAndLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		frames int
	}{
		{name: "long", frames: 1000},
		{name: "shorter than the kernel", frames: 10},
		{name: "single frame", frames: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := audiotest.NewMockSource(44100, 2, tt.frames, func(_ int, ch int) float32 {
				if ch == 0 {
					return 0.5
				}
				return -0.125
			})

			out := drain(t, newLowPass(src, 22050))
			if len(out) != 2*tt.frames {
				t.Fatalf("len = %d, want %d", len(out), 2*tt.frames)
			}

			for i := 0; i < len(out); i += 2 {
				if math.Abs(float64(out[i]-0.5)) > 1e-5 || math.Abs(float64(out[i+1]+0.125)) > 1e-5 {
					t.Fatalf("frame %d = (%v, %v), want (0.5, -0.125)", i/2, out[i], out[i+1])
				}
			}
		})
	}
}

func TestLowPass_Empty(t *testing.T) {
	t.Parallel()

	out := drain(t, newLowPass(audiotest.NewSilentSource(44100, 1, 0), 22050))
	if len(out) != 0 {
		t.Errorf("len = %d, want 0", len(out))
	}
}

// toneGain resamples a unit sine and returns the output level in dB,
// measured away from the edges.
func toneGain(t *testing.T, srcRate, dstRate int, freq float64) float64 {
	t.Helper()

	out := drain(t, NewResampler(audiotest.NewSineSource(srcRate, 1, srcRate, freq), dstRate))

	body := out[1000 : len(out)-1000]
	var sum float64
	for _, v := range body {
		sum += float64(v) * float64(v)
	}
	rms := math.Sqrt(sum / float64(len(body)))

	return 20 * math.Log10(rms*math.Sqrt2)
}

func TestResampler_PassbandFlat(t *testing.T) {
	t.Parallel()

	for _, freq := range []float64{100, 1000, 5000, 8000} {
		if gain := toneGain(t, 44100, 22050, freq); math.Abs(gain) > 0.1 {
			t.Errorf("%v Hz: gain = %.3f dB, want within 0.1 dB", freq, gain)
		}
	}
}

func TestResampler_RejectsAliases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		srcRate int
		freq    float64
	}{
		{srcRate: 44100, freq: 15000},
		{srcRate: 44100, freq: 18000},
		{srcRate: 48000, freq: 16000},
	}

	for _, tt := range tests {
		if gain := toneGain(t, tt.srcRate, 22050, tt.freq); gain > -40 {
			t.Errorf("%d Hz source, %v Hz tone: gain = %.1f dB, want below -40 dB", tt.srcRate, tt.freq, gain)
		}
	}
}

func BenchmarkLowPass(b *testing.B) {
	lp := newLowPass(audiotest.NewSineSource(44100, 1, 1<<30, 440), 22050)
	buf := make([]float32, 4096)

	b.ReportAllocs()

	for b.Loop() {
		_, _ = lp.ReadSamples(buf)
	}
}
