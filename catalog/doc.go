// SPDX-License-Identifier: EPL-2.0

// Package catalog holds the fixed track list and resolves named audio
// resources on disk.
package catalog
