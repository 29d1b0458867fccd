// SPDX-License-Identifier: EPL-2.0

package dataset

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig = errors.New("invalid dataset configuration")
	ErrEmptyDataset  = errors.New("dataset is empty")
	ErrShape         = errors.New("tensor shape mismatch")
)

// Cause explains why a run produced no samples.
type Cause int

const (
	CauseNoClips   Cause = iota + 1 // no file matched the pattern
	CauseAllFailed                  // every clip failed to parse or decode
	CauseTooShort                   // no clip filled one window, some may have failed
)

func (c Cause) String() string {
	switch c {
	case CauseNoClips:
		return "no clips found"
	case CauseAllFailed:
		return "all clips failed"
	case CauseTooShort:
		return "no clip filled one window"
	}

	return fmt.Sprintf("Cause(%d)", int(c))
}

type EmptyDatasetError struct {
	Cause  Cause
	Clips  int // files matched
	Failed int // files that errored
}

func (e *EmptyDatasetError) Error() string {
	return fmt.Sprintf("%s: %s (%d clips, %d failed)", ErrEmptyDataset, e.Cause, e.Clips, e.Failed)
}

func (e *EmptyDatasetError) Is(target error) bool { return target == ErrEmptyDataset }
