// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF audio files for the track catalog.
//
// Parsing is done by github.com/go-audio/aiff; samples are normalized by
// the shared integer PCM source. Readers that cannot seek are buffered in
// memory first, since the go-audio decoder walks chunks with Seek.
package aiff
