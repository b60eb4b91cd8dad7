// SPDX-License-Identifier: EPL-2.0

// Package audio provides the streaming primitives the radio engine is built on.
//
// This package contains the core building blocks:
//   - Source interface for decoded PCM input
//   - Registry mapping file extensions to decoders
//   - Resampler for sample rate conversion
//   - ChannelMixer for channel layout conversion
//   - Convert and WithSpeed helpers used when scheduling files and UI sounds
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Sources that know their length also implement Lengther.
//
// # Converting to the engine format
//
// Decoded files rarely match the output device, so the engine wraps every
// scheduled source:
//
//	src, _ := registry.Get("mp3")
//	dec, _ := src.Decode(file)
//	conv, err := audio.Convert(dec, 44100, 2)
//
// Convert only inserts a ChannelMixer or Resampler when the format differs.
//
// # Sample Format
//
// Samples are float32 in [-1.0, 1.0], interleaved by channel.
// ReadSamples returns io.EOF once the stream is exhausted.
package audio
