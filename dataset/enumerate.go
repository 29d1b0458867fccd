// SPDX-License-Identifier: EPL-2.0

package dataset

import (
	"fmt"
	"path/filepath"
	"slices"
)

// DefaultPattern matches the clips inside each folder.
const DefaultPattern = "*.wav"

// Clip is one input file and the folder it was found in.
type Clip struct {
	Folder string
	Path   string
}

// Enumerate globs pattern inside each folder under root. Folders keep the
// given order and files are sorted within a folder. Missing folders match
// nothing.
func Enumerate(root string, folders []string, pattern string) ([]Clip, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("%w: pattern %q: %w", ErrInvalidConfig, pattern, err)
	}

	var clips []Clip
	for _, folder := range folders {
		matches, err := filepath.Glob(filepath.Join(root, folder, pattern))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		slices.Sort(matches)

		for _, m := range matches {
			clips = append(clips, Clip{Folder: folder, Path: m})
		}
	}

	return clips, nil
}
