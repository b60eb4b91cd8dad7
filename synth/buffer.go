// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"math"
	"time"
)

// Buffer is an interleaved float32 PCM buffer. It is read-only once generated
// and may be shared by any number of voices.
type Buffer struct {
	SampleRate int
	Channels   int
	Samples    []float32
}

// Frames returns the number of frames in the buffer.
func (b *Buffer) Frames() int {
	if b == nil || b.Channels == 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// Duration returns the playing time of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b == nil || b.SampleRate == 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

// Frame returns the samples of frame i.
func (b *Buffer) Frame(i int) []float32 {
	return b.Samples[i*b.Channels : (i+1)*b.Channels]
}

// Peak returns the largest absolute sample value.
func (b *Buffer) Peak() float32 {
	var peak float32
	for _, v := range b.Samples {
		if a := float32(math.Abs(float64(v))); a > peak {
			peak = a
		}
	}
	return peak
}

// FrameCount is the number of frames a generator produces for duration
// seconds at sampleRate: floor(duration * sampleRate).
func FrameCount(duration float64, sampleRate int) int {
	return int(math.Floor(duration * float64(sampleRate)))
}

func newBuffer(duration float64, sampleRate, channels int) (*Buffer, error) {
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return nil, ErrInvalidDuration
	}
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if channels <= 0 {
		return nil, ErrInvalidChannels
	}

	// A positive duration shorter than one frame yields an empty buffer.
	frames := FrameCount(duration, sampleRate)

	return &Buffer{
		SampleRate: sampleRate,
		Channels:   channels,
		Samples:    make([]float32, frames*channels),
	}, nil
}
