// SPDX-License-Identifier: EPL-2.0

package dataset

import (
	"fmt"
	"maps"
	"slices"
)

// Dataset pairs a feature tensor with one label per sample.
type Dataset struct {
	Features *Tensor
	Labels   []int
}

func New(features *Tensor, labels []int) (*Dataset, error) {
	if features == nil {
		return nil, fmt.Errorf("%w: nil features", ErrShape)
	}
	if features.Len() != len(labels) {
		return nil, fmt.Errorf("%w: %d samples, %d labels", ErrShape, features.Len(), len(labels))
	}

	return &Dataset{Features: features, Labels: labels}, nil
}

func (d *Dataset) Len() int { return len(d.Labels) }

// LabelCounts returns the number of samples per label.
func (d *Dataset) LabelCounts() map[int]int {
	counts := make(map[int]int)
	for _, l := range d.Labels {
		counts[l]++
	}

	return counts
}

// Classes returns the distinct labels in ascending order.
func (d *Dataset) Classes() []int {
	return slices.Sorted(maps.Keys(d.LabelCounts()))
}
