// SPDX-License-Identifier: EPL-2.0

package effects

import "errors"

var (
	ErrUnknownMode       = errors.New("unknown filter mode")
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrInvalidChannels   = errors.New("channel count must be positive")
)
