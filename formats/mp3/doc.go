// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files, the format of the bundled track catalog
// and UI sounds, using github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces 16-bit stereo; the source reports its length in
// frames when the underlying reader can seek.
package mp3
