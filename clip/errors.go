// SPDX-License-Identifier: EPL-2.0

package clip

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig = errors.New("invalid clip processor configuration")
	ErrDecode        = errors.New("audio decode failed")
	ErrLabelParse    = errors.New("cannot parse label from file name")
)

// LabelParseError reports a file name without a numeric second token.
type LabelParseError struct {
	Name  string // base name of the file
	Token string // offending token, empty when missing
	Err   error
}

func (e *LabelParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %q: no label token", ErrLabelParse, e.Name)
	}

	return fmt.Sprintf("%s: %q: token %q: %v", ErrLabelParse, e.Name, e.Token, e.Err)
}

func (e *LabelParseError) Is(target error) bool { return target == ErrLabelParse }
func (e *LabelParseError) Unwrap() error        { return e.Err }

// DecodeError reports an unreadable or undecodable audio file.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrDecode, e.Path, e.Err)
}

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }
func (e *DecodeError) Unwrap() error        { return e.Err }
