// SPDX-License-Identifier: EPL-2.0

package effects

import (
	"math"

	"github.com/ik5/radiobox/utils"
)

// biquad is a Direct Form I second-order section with one state per channel.
// Coefficients follow the RBJ audio EQ cookbook and are normalized by a0.
type biquad struct {
	b0, b1, b2, a1, a2 float64

	x1, x2, y1, y2 []float64
}

func newBiquad(band Band, sampleRate, channels int) *biquad {
	bq := &biquad{
		x1: make([]float64, channels),
		x2: make([]float64, channels),
		y1: make([]float64, channels),
		y2: make([]float64, channels),
	}
	bq.configure(band, sampleRate)
	return bq
}

func (bq *biquad) configure(band Band, sampleRate int) {
	fs := float64(sampleRate)
	f := utils.Clamp(band.Frequency, 10, fs*0.49)
	bw := band.Bandwidth
	if bw <= 0 {
		bw = 1
	}

	w0 := 2 * math.Pi * f / fs
	cosW, sinW := math.Cos(w0), math.Sin(w0)
	alpha := sinW * math.Sinh(math.Ln2/2*bw*w0/sinW)

	var b0, b1, b2, a0, a1, a2 float64
	switch band.Type {
	case HighPass:
		b0 = (1 + cosW) / 2
		b1 = -(1 + cosW)
		b2 = (1 + cosW) / 2
		a0 = 1 + alpha
		a1 = -2 * cosW
		a2 = 1 - alpha
	case LowPass:
		b0 = (1 - cosW) / 2
		b1 = 1 - cosW
		b2 = (1 - cosW) / 2
		a0 = 1 + alpha
		a1 = -2 * cosW
		a2 = 1 - alpha
	default:
		a := math.Pow(10, band.Gain/40)
		b0 = 1 + alpha*a
		b1 = -2 * cosW
		b2 = 1 - alpha*a
		a0 = 1 + alpha/a
		a1 = -2 * cosW
		a2 = 1 - alpha/a
	}

	bq.b0, bq.b1, bq.b2 = b0/a0, b1/a0, b2/a0
	bq.a1, bq.a2 = a1/a0, a2/a0
	bq.reset()
}

func (bq *biquad) reset() {
	clear(bq.x1)
	clear(bq.x2)
	clear(bq.y1)
	clear(bq.y2)
}

func (bq *biquad) process(buf []float32) {
	channels := len(bq.x1)
	for i := 0; i+channels <= len(buf); i += channels {
		for c := range channels {
			x := float64(buf[i+c])
			y := bq.b0*x + bq.b1*bq.x1[c] + bq.b2*bq.x2[c] - bq.a1*bq.y1[c] - bq.a2*bq.y2[c]
			bq.x2[c], bq.x1[c] = bq.x1[c], x
			bq.y2[c], bq.y1[c] = bq.y1[c], y
			buf[i+c] = float32(y)
		}
	}
}

// equalizer runs its non-bypassed bands in series.
type equalizer struct {
	params EQParams
	bands  [NumBands]*biquad
}

func newEqualizer(sampleRate, channels int) *equalizer {
	eq := &equalizer{}
	for i := range eq.bands {
		eq.bands[i] = newBiquad(neutralBand(), sampleRate, channels)
	}
	return eq
}

func (eq *equalizer) configure(p EQParams, sampleRate int) {
	eq.params = p
	for i, band := range p.Bands {
		eq.bands[i].configure(band, sampleRate)
	}
}

func (eq *equalizer) Process(buf []float32) {
	if eq.params.Bypass {
		return
	}
	for i, band := range eq.params.Bands {
		if band.Bypass {
			continue
		}
		eq.bands[i].process(buf)
	}
}

func (eq *equalizer) Reset() {
	for _, bq := range eq.bands {
		bq.reset()
	}
}
