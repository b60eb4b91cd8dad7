// SPDX-License-Identifier: EPL-2.0

package device

import "errors"

var (
	ErrClosed            = errors.New("device closed")
	ErrFormatMismatch    = errors.New("source format does not match output")
	ErrDeviceNotFound    = errors.New("device not found")
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrInvalidChannels   = errors.New("channel count must be positive")
	ErrNotStarted        = errors.New("device not started")
)
