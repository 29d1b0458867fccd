// SPDX-License-Identifier: EPL-2.0

package store

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Meta describes how an artifact was produced. It is stored inside the
// artifact and, for humans, in a YAML sidecar next to it.
type Meta struct {
	Version     int         `yaml:"version" msgpack:"version"`
	CreatedAt   time.Time   `yaml:"created_at" msgpack:"created_at"`
	Root        string      `yaml:"root" msgpack:"root"`
	Folders     []string    `yaml:"folders" msgpack:"folders"`
	Pattern     string      `yaml:"pattern" msgpack:"pattern"`
	SampleRate  int         `yaml:"sample_rate" msgpack:"sample_rate"`
	Bands       int         `yaml:"bands" msgpack:"bands"`
	Frames      int         `yaml:"frames" msgpack:"frames"`
	NFFT        int         `yaml:"n_fft" msgpack:"n_fft"`
	HopLength   int         `yaml:"hop_length" msgpack:"hop_length"`
	DeltaWidth  int         `yaml:"delta_width" msgpack:"delta_width"`
	Shape       [4]int      `yaml:"shape,flow" msgpack:"shape"`
	Clips       int         `yaml:"clips" msgpack:"clips"`
	Failed      int         `yaml:"failed" msgpack:"failed"`
	LabelCounts map[int]int `yaml:"label_counts" msgpack:"label_counts"`
}

// SidecarPath returns the YAML sidecar path for an artifact.
func SidecarPath(path string) string { return path + ".yaml" }

// LoadMeta reads the YAML sidecar of the artifact at path.
func LoadMeta(path string) (Meta, error) {
	var m Meta

	data, err := os.ReadFile(SidecarPath(path))
	if err != nil {
		return m, fmt.Errorf("read sidecar: %w", err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("%w: sidecar: %w", ErrCorrupt, err)
	}

	return m, nil
}

func writeMeta(path string, m Meta) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode sidecar: %w", err)
	}

	return writeAtomic(SidecarPath(path), func(f *os.File) error {
		_, err := f.Write(data)
		return err
	})
}
