// SPDX-License-Identifier: EPL-2.0

package engine

import "errors"

var (
	ErrCycle          = errors.New("connection would create a cycle")
	ErrUnknownNode    = errors.New("unknown node")
	ErrNoInput        = errors.New("no live input configured")
	ErrFormatMismatch = errors.New("buffer format does not match engine")
	ErrNoBank         = errors.New("synth bank is required")
	ErrClosed         = errors.New("engine closed")
	ErrMonitoring     = errors.New("live input is routed; stop monitoring first")
)
