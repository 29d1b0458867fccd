// SPDX-License-Identifier: EPL-2.0

package store

import "errors"

var (
	ErrVersion = errors.New("unsupported artifact version")
	ErrCorrupt = errors.New("corrupt artifact")
)
