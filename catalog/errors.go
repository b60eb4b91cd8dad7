// SPDX-License-Identifier: EPL-2.0

package catalog

import "errors"

var (
	ErrNotFound      = errors.New("resource not found")
	ErrNoDecoder     = errors.New("no decoder for resource")
	ErrNoDirectories = errors.New("no asset directories configured")
)
