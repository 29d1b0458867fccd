// SPDX-License-Identifier: EPL-2.0

package clip

import (
	"path/filepath"
	"strconv"
	"strings"
)

// ParseLabel extracts the class label from a clip path named
// <anything>-<label>-<anything>. Only the second "-" separated token of the
// base name is used and the extension is kept, so "100-3.wav" is rejected.
func ParseLabel(path string) (int, error) {
	name := filepath.Base(path)

	tokens := strings.Split(name, "-")
	if len(tokens) < 2 {
		return 0, &LabelParseError{Name: name}
	}

	label, err := strconv.ParseUint(tokens[1], 10, 31)
	if err != nil {
		return 0, &LabelParseError{Name: name, Token: tokens[1], Err: err}
	}

	return int(label), nil
}
