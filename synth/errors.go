// SPDX-License-Identifier: EPL-2.0

package synth

import "errors"

var (
	ErrInvalidDuration   = errors.New("duration must be positive")
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrInvalidChannels   = errors.New("channel count must be positive")
)
