// SPDX-License-Identifier: EPL-2.0

// Package window segments a signal of known length into half-overlapping
// fixed-size windows.
package window

import (
	"errors"
	"fmt"
	"iter"
)

var ErrInvalidSize = errors.New("window size must be at least 2")

// Validate reports whether size produces a positive step.
func Validate(size int) error {
	if size < 2 {
		return fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}

	return nil
}

// Windows yields half-open (start, end) ranges of the given size, starting
// at 0 and advancing by size/2 while start < length. The last windows may
// extend past length; callers decide whether to keep them. Invalid sizes
// yield nothing.
func Windows(length, size int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		if Validate(size) != nil {
			return
		}

		step := size / 2
		for start := 0; start < length; start += step {
			if !yield(start, start+size) {
				return
			}
		}
	}
}

// Full counts the windows of Windows(length, size) that fit inside length.
func Full(length, size int) int {
	if Validate(size) != nil || length < size {
		return 0
	}

	return (length-size)/(size/2) + 1
}
