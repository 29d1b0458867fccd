// SPDX-License-Identifier: EPL-2.0

package store

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ik5/melfeat/dataset"
)

// FormatVersion is written into every artifact.
const FormatVersion = 1

type artifact struct {
	Meta     Meta      `msgpack:"meta"`
	Shape    [4]int    `msgpack:"shape"`
	Labels   []int     `msgpack:"labels"`
	Features []float32 `msgpack:"features"`
}

// Save writes ds to path as zstd-compressed msgpack and meta to the YAML
// sidecar. Version, shape and label counts in meta are filled from ds; a
// zero CreatedAt is set to now. Both files are replaced atomically.
func Save(path string, ds *dataset.Dataset, meta Meta) (Meta, error) {
	shape := ds.Features.Shape()

	meta.Version = FormatVersion
	meta.Shape = [4]int{shape.N, shape.Bands, shape.Frames, shape.Channels}
	meta.LabelCounts = ds.LabelCounts()
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	a := artifact{
		Meta:     meta,
		Shape:    meta.Shape,
		Labels:   ds.Labels,
		Features: ds.Features.Data(),
	}

	err := writeAtomic(path, func(f *os.File) error {
		bw := bufio.NewWriter(f)

		zw, err := zstd.NewWriter(bw, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return err
		}

		if err := msgpack.NewEncoder(zw).Encode(&a); err != nil {
			zw.Close()
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}

		return bw.Flush()
	})
	if err != nil {
		return meta, fmt.Errorf("save %s: %w", path, err)
	}

	if err := writeMeta(path, meta); err != nil {
		return meta, fmt.Errorf("save %s: %w", path, err)
	}

	return meta, nil
}

// Load reads an artifact written by Save.
func Load(path string) (*dataset.Dataset, Meta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("load %s: %w", path, err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(bufio.NewReader(f))
	if err != nil {
		return nil, Meta{}, fmt.Errorf("load %s: %w", path, err)
	}
	defer zr.Close()

	var a artifact
	if err := msgpack.NewDecoder(zr).Decode(&a); err != nil {
		return nil, Meta{}, fmt.Errorf("%w: %s: %w", ErrCorrupt, path, err)
	}

	if a.Meta.Version != FormatVersion {
		return nil, a.Meta, fmt.Errorf("%w: %d", ErrVersion, a.Meta.Version)
	}

	shape := dataset.Shape{N: a.Shape[0], Bands: a.Shape[1], Frames: a.Shape[2], Channels: a.Shape[3]}
	features, err := dataset.NewTensor(shape, a.Features)
	if err != nil {
		return nil, a.Meta, fmt.Errorf("%w: %s: %w", ErrCorrupt, path, err)
	}

	ds, err := dataset.New(features, a.Labels)
	if err != nil {
		return nil, a.Meta, fmt.Errorf("%w: %s: %w", ErrCorrupt, path, err)
	}

	return ds, a.Meta, nil
}

// writeAtomic writes through a temporary file in the target directory and
// renames it over path once fill succeeds.
func writeAtomic(path string, fill func(*os.File) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = fill(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
