// SPDX-License-Identifier: EPL-2.0

package effects

import (
	"math"

	"github.com/ik5/radiobox/utils"
)

// MaxDelayTime is the longest supported echo, in seconds.
const MaxDelayTime = 2.0

// delayLine is a circular feedback delay sized for MaxDelayTime.
type delayLine struct {
	params   DelayParams
	channels int
	rate     int

	line     []float32
	pos      int
	offset   int // delay in samples (frames*channels)
	feedback float32
	mix      float32
}

func newDelayLine(sampleRate, channels int) *delayLine {
	frames := int(math.Ceil(MaxDelayTime*float64(sampleRate))) + 1
	return &delayLine{
		channels: channels,
		rate:     sampleRate,
		line:     make([]float32, frames*channels),
	}
}

func (d *delayLine) configure(p DelayParams) {
	d.params = p

	t := utils.Clamp(p.Time, 0, MaxDelayTime)
	frames := max(int(math.Round(t*float64(d.rate))), 1)
	d.offset = frames * d.channels
	d.feedback = utils.PercentToMix(p.Feedback)
	d.mix = utils.PercentToMix(p.WetDryMix)
	d.Reset()
}

func (d *delayLine) Process(buf []float32) {
	if d.params.Bypass {
		return
	}
	n := len(d.line)
	for i, x := range buf {
		read := d.pos - d.offset
		if read < 0 {
			read += n
		}
		delayed := d.line[read]
		d.line[d.pos] = x + delayed*d.feedback
		buf[i] = x*(1-d.mix) + delayed*d.mix

		d.pos++
		if d.pos == n {
			d.pos = 0
		}
	}
}

func (d *delayLine) Reset() {
	clear(d.line)
	d.pos = 0
}
