// SPDX-License-Identifier: EPL-2.0

package audio

// Convert wraps src so it yields samples at rate with the given channel count.
// Stages are only added when the format actually differs.
func Convert(src Source, rate, channels int) (Source, error) {
	if rate <= 0 {
		return nil, ErrInvalidRate
	}
	if channels <= 0 {
		return nil, ErrInvalidChannels
	}

	out := src
	if out.Channels() != channels {
		out = NewChannelMixer(out, channels)
	}
	if out.SampleRate() != rate {
		out = NewResampler(out, rate)
	}

	return out, nil
}

// speedSource reports a scaled sample rate so a downstream resampler plays
// the wrapped source faster or slower.
type speedSource struct {
	Source
	rate int
}

func (s *speedSource) SampleRate() int { return s.rate }

// WithSpeed returns src re-labelled to play at factor times its speed once
// converted back to the device rate. Factors outside [0.25, 4] are rejected.
func WithSpeed(src Source, factor float64) (Source, error) {
	if factor == 1 {
		return src, nil
	}
	if factor < 0.25 || factor > 4 {
		return nil, ErrUnsupportedRatio
	}

	rate := int(float64(src.SampleRate()) * factor)
	if rate <= 0 {
		return nil, ErrInvalidRate
	}

	return &speedSource{Source: src, rate: rate}, nil
}
