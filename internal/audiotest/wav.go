// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/melfeat/utils"
)

// WriteWAV writes mono 16-bit PCM samples to path, creating parent
// directories as needed.
func WriteWAV(tb testing.TB, path string, sampleRate int, samples []float32) {
	tb.Helper()

	WriteWAVChannels(tb, path, sampleRate, 1, samples)
}

// WriteWAVChannels writes interleaved 16-bit PCM samples to path.
func WriteWAVChannels(tb testing.TB, path string, sampleRate, channels int, samples []float32) {
	tb.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		tb.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(utils.Float32ToInt16(s))
	}

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		tb.Fatalf("encode %s: %v", path, err)
	}
	if err := enc.Close(); err != nil {
		tb.Fatalf("finalize %s: %v", path, err)
	}
}

// Tone returns n samples of a sine at frequency with the given amplitude.
func Tone(n, sampleRate int, frequency float64, amplitude float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = amplitude * float32(Sine(i, sampleRate, frequency))
	}

	return out
}
