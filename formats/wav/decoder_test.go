// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/melfeat/internal/audiotest"
)

func readAll(t *testing.T, r io.Reader) []float32 {
	t.Helper()

	src, err := Decoder{}.Decode(r)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	var out []float32
	buf := make([]float32, 256)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
}

func TestDecoder_Mono16(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tone.wav")
	want := audiotest.Tone(1000, 8000, 440, 0.5)
	audiotest.WriteWAV(t, path, 8000, want)

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	src, err := Decoder{}.Decode(f)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != 8000 || src.Channels() != 1 {
		t.Errorf("metadata = (%d, %d), want (8000, 1)", src.SampleRate(), src.Channels())
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	got := readAll(t, f)
	if len(got) != len(want) {
		t.Fatalf("decoded %d samples, want %d", len(got), len(want))
	}

	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1.0/16384 {
			t.Fatalf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecoder_Stereo(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "stereo.wav")
	audiotest.WriteWAVChannels(t, path, 16000, 2, []float32{0.5, -0.5, 0.25, -0.25})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// A plain reader exercises the in-memory buffering path.
	got := readAll(t, io.MultiReader(bytes.NewReader(data)))

	want := []float32{0.5, -0.5, 0.25, -0.25}
	if len(got) != len(want) {
		t.Fatalf("decoded %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-3 {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecoder_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "garbage", data: []byte("This is not WAV data at all, just text")},
		{name: "truncated header", data: []byte("RIFF\x24\x00\x00\x00WAVEfmt ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrNotWavFile) {
				t.Errorf("Decode() error = %v, want %v", err, ErrNotWavFile)
			}
		})
	}
}

func TestDecoder_FloatRejected(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "float.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	// IEEE float format tag with integer payload is enough for the header check.
	enc := wav.NewEncoder(f, 8000, 32, 1, 3)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: 8000},
		Data:           []int{1, 2, 3, 4},
		SourceBitDepth: 32,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := (Decoder{}).Decode(bytes.NewReader(data)); !errors.Is(err, ErrUnsupportedEncoding) {
		t.Errorf("Decode() error = %v, want %v", err, ErrUnsupportedEncoding)
	}
}

func BenchmarkDecoder_ReadSamples(b *testing.B) {
	path := filepath.Join(b.TempDir(), "bench.wav")
	audiotest.WriteWAV(b, path, 22050, audiotest.Tone(22050*4, 22050, 440, 0.8))

	data, err := os.ReadFile(path)
	if err != nil {
		b.Fatal(err)
	}

	buf := make([]float32, 4096)

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		src, err := Decoder{}.Decode(bytes.NewReader(data))
		if err != nil {
			b.Fatal(err)
		}
		for {
			if _, err := src.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
