// SPDX-License-Identifier: EPL-2.0

package player

import "errors"

var (
	ErrClosed       = errors.New("controller closed")
	ErrDebounced    = errors.New("track change ignored, too soon after the previous one")
	ErrSoundDropped = errors.New("too many sounds of this class playing")
	ErrNoCatalog    = errors.New("catalog is empty")
)
