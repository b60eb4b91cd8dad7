// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"fmt"
	"math/rand/v2"
)

// Bank holds the radio artifact buffers, generated once at start-up.
type Bank struct {
	Noise      *Buffer
	Beep       *Buffer
	Heterodyne *Buffer
}

// NewBank generates noise, beep and heterodyne buffers in the given format.
func NewBank(sampleRate, channels int, rng *rand.Rand) (*Bank, error) {
	noise, err := Noise(DefaultNoiseDuration, sampleRate, channels, rng)
	if err != nil {
		return nil, fmt.Errorf("noise buffer: %w", err)
	}

	beep, err := Beep(DefaultBeep(), sampleRate, channels)
	if err != nil {
		return nil, fmt.Errorf("beep buffer: %w", err)
	}

	het, err := Heterodyne(DefaultHeterodyne(), sampleRate, channels)
	if err != nil {
		return nil, fmt.Errorf("heterodyne buffer: %w", err)
	}

	return &Bank{Noise: noise, Beep: beep, Heterodyne: het}, nil
}

// Named returns the buffers keyed by name, for export.
func (b *Bank) Named() map[string]*Buffer {
	return map[string]*Buffer{
		"noise":      b.Noise,
		"beep":       b.Beep,
		"heterodyne": b.Heterodyne,
	}
}
