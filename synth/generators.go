// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"math"
	"math/rand/v2"
)

// Static noise mix: white noise plus a slow rumble.
const (
	noiseWhiteGain  = 0.4
	noiseRumbleGain = 0.1
	noiseRumbleStep = 0.01

	// DefaultNoiseDuration is the length of the looped static bed, in seconds.
	DefaultNoiseDuration = 5.0
)

// Noise generates radio static: independent uniform draws in [-1, 1]
// scaled by 0.4, plus sin(i*0.01)*0.1 where i is the frame index.
// A nil rng uses the global source.
func Noise(duration float64, sampleRate, channels int, rng *rand.Rand) (*Buffer, error) {
	buf, err := newBuffer(duration, sampleRate, channels)
	if err != nil {
		return nil, err
	}

	draw := rand.Float64
	if rng != nil {
		draw = rng.Float64
	}

	frames := buf.Frames()
	for i := range frames {
		rumble := math.Sin(float64(i)*noiseRumbleStep) * noiseRumbleGain
		for c := range channels {
			white := (draw()*2 - 1) * noiseWhiteGain
			buf.Samples[i*channels+c] = float32(white + rumble)
		}
	}

	return buf, nil
}

// BeepParams describes the exponentially decaying "roger beep".
type BeepParams struct {
	Duration  float64 // seconds
	Frequency float64 // Hz
	Decay     float64 // envelope constant k in exp(-k*t)
	Amplitude float64
}

// DefaultBeep is a 0.2 s, 1200 Hz beep with decay 10.
func DefaultBeep() BeepParams {
	return BeepParams{Duration: 0.2, Frequency: 1200, Decay: 10, Amplitude: 0.4}
}

// Beep generates exp(-decay*t) * sin(2*pi*f*t) * amplitude.
func Beep(p BeepParams, sampleRate, channels int) (*Buffer, error) {
	buf, err := newBuffer(p.Duration, sampleRate, channels)
	if err != nil {
		return nil, err
	}

	rate := float64(sampleRate)
	for i := range buf.Frames() {
		t := float64(i) / rate
		v := float32(math.Exp(-p.Decay*t) * math.Sin(2*math.Pi*p.Frequency*t) * p.Amplitude)
		for c := range channels {
			buf.Samples[i*channels+c] = v
		}
	}

	return buf, nil
}

// HeterodyneParams describes the drifting beat tone heard while tuning shortwave.
type HeterodyneParams struct {
	Duration  float64 // seconds
	BaseFreq  float64 // Hz
	DriftFreq float64 // peak deviation, Hz
	DriftRate float64 // deviation speed, Hz
	Amplitude float64
}

// DefaultHeterodyne is a 5 s tone around 1 kHz drifting ±200 Hz at 0.2 Hz.
func DefaultHeterodyne() HeterodyneParams {
	return HeterodyneParams{Duration: 5, BaseFreq: 1000, DriftFreq: 200, DriftRate: 0.2, Amplitude: 0.05}
}

// Heterodyne generates a tone whose frequency follows
// base + drift*sin(2*pi*rate*t). The phase is integrated sample by sample so
// the waveform stays continuous while the frequency moves.
func Heterodyne(p HeterodyneParams, sampleRate, channels int) (*Buffer, error) {
	buf, err := newBuffer(p.Duration, sampleRate, channels)
	if err != nil {
		return nil, err
	}

	rate := float64(sampleRate)
	phase := 0.0
	for i := range buf.Frames() {
		t := float64(i) / rate
		freq := p.BaseFreq + p.DriftFreq*math.Sin(2*math.Pi*p.DriftRate*t)
		phase += 2 * math.Pi * freq / rate
		if phase > 2*math.Pi {
			phase -= 2 * math.Pi
		}
		v := float32(math.Sin(phase) * p.Amplitude)
		for c := range channels {
			buf.Samples[i*channels+c] = v
		}
	}

	return buf, nil
}
