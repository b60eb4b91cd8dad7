// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelMixer adapts a source to a different channel count.
// Mono is duplicated to every output channel, any layout folds to mono by
// averaging, and wider layouts keep their leading channels.
type ChannelMixer struct {
	src Source
	out int
	tmp []float32
}

func NewChannelMixer(src Source, channels int) *ChannelMixer {
	return &ChannelMixer{
		src: src,
		out: channels,
		tmp: make([]float32, 4096),
	}
}

func (m *ChannelMixer) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMixer) Channels() int   { return m.out }
func (m *ChannelMixer) BufSize() int    { return m.src.BufSize() }

func (m *ChannelMixer) Close() error {
	err := m.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (m *ChannelMixer) Frames() int64 {
	if l, ok := m.src.(Lengther); ok {
		return l.Frames()
	}
	return -1
}

func (m *ChannelMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if len(dst)%m.out != 0 {
		return 0, ErrInvalidDstSize
	}

	in := m.src.Channels()
	if in == m.out {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / m.out
	needed := frames * in

	// Grow but never shrink the scratch buffer
	if cap(m.tmp) < needed {
		m.tmp = make([]float32, needed)
	}
	m.tmp = m.tmp[:needed]

	n, err := m.src.ReadSamples(m.tmp)
	if n == 0 {
		return 0, err
	}
	got := n / in

	switch {
	case in == 1:
		for f := range got {
			v := m.tmp[f]
			for c := range m.out {
				dst[f*m.out+c] = v
			}
		}
	case m.out == 1:
		inv := 1 / float32(in)
		for f := range got {
			sum := float32(0)
			for c := range in {
				sum += m.tmp[f*in+c]
			}
			dst[f] = sum * inv
		}
	default:
		for f := range got {
			for c := range m.out {
				dst[f*m.out+c] = m.tmp[f*in+c%in]
			}
		}
	}

	return got * m.out, err
}
