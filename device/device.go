// SPDX-License-Identifier: EPL-2.0

package device

import (
	"github.com/ik5/radiobox/audio"
)

// Renderer fills buf with the next interleaved float32 block of the mix.
// Render must always fill the whole buffer.
type Renderer interface {
	Render(buf []float32)
}

// Output drives a Renderer from the audio hardware.
type Output interface {
	// Start begins pulling from r. Starting an already running output is a no-op.
	Start(r Renderer) error
	Stop() error
	Close() error
}

// SoundOutput plays short sounds on handles independent of the main stream.
// The source must already be in the output format.
type SoundOutput interface {
	PlaySound(src audio.Source, volume float64) (Handle, error)
}

// Handle is one playing ephemeral sound.
type Handle interface {
	IsPlaying() bool
	Stop() error
}

// Input is a live capture stream. ReadSamples never blocks: when no
// captured data is available the remainder of dst is filled with silence.
type Input interface {
	audio.Source
	Start() error
	Stop() error
}

// Category is the audio session mode.
type Category int

const (
	CategoryPlayback Category = iota
	CategoryPlayAndRecord
)

func (c Category) String() string {
	switch c {
	case CategoryPlayback:
		return "playback"
	case CategoryPlayAndRecord:
		return "play-and-record"
	}
	return "unknown"
}

// Session is the platform audio session.
type Session interface {
	SetCategory(c Category) error
	SetActive(active bool) error
}

// DeviceInfo describes one audio device.
type DeviceInfo struct {
	Index             int
	Name              string
	HostAPI           string
	MaxInputChannels  int
	MaxOutputChannels int
	DefaultSampleRate float64
	DefaultInput      bool
	DefaultOutput     bool
}
