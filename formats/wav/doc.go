// SPDX-License-Identifier: EPL-2.0

// Package wav decodes PCM WAV files and writes 16-bit WAV output.
//
// Decoding is delegated to github.com/go-audio/wav, which walks the RIFF
// chunks, so files with LIST or fact chunks before the data chunk work.
// 16, 24 and 32-bit integer PCM are accepted; samples come out as float32
// in [-1, 1].
//
//	src, err := wav.Decoder{}.Decode(file)
//
// WriteWAV16 and WriteFloat produce canonical 44-byte-header files and are
// used to export the synthesized radio buffers.
package wav
