// SPDX-License-Identifier: EPL-2.0

package spectral

import "errors"

var (
	ErrShape          = errors.New("spectrogram shape mismatch")
	ErrInvalidConfig  = errors.New("invalid spectral configuration")
	ErrSignalTooShort = errors.New("signal too short for centered STFT")
	ErrInvalidWidth   = errors.New("invalid delta width")
)
