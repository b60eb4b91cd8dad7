// SPDX-License-Identifier: EPL-2.0

package effects

import (
	"math"

	"github.com/ik5/radiobox/utils"
)

// Broken speaker curve: asymmetric clipping with coarse quantization.
const (
	brokenPositiveClip = 0.45
	brokenNegativeClip = 0.3
	brokenLevels       = 24
)

type distortion struct {
	params DistortionParams
	gain   float64
	mix    float32
}

func (d *distortion) configure(p DistortionParams) {
	d.params = p
	d.gain = utils.DBToGain(p.PreGain)
	d.mix = utils.PercentToMix(p.WetDryMix)
}

func shape(preset DistortionPreset, x float64) float64 {
	switch preset {
	case DistortedSquared:
		x = utils.Clamp(x*4, -1, 1)
		// 1-(1-|x|)^2 keeps the sign and saturates toward ±1.
		a := 1 - math.Abs(x)
		return math.Copysign(1-a*a, x)
	default:
		x = math.Round(x*2*brokenLevels) / brokenLevels
		return utils.Clamp(x, -brokenNegativeClip, brokenPositiveClip) / brokenPositiveClip
	}
}

func (d *distortion) Process(buf []float32) {
	if d.params.Bypass {
		return
	}
	for i, v := range buf {
		wet := float32(shape(d.params.Preset, float64(v)*d.gain))
		buf[i] = v*(1-d.mix) + wet*d.mix
	}
}

// Reset is a no-op: the waveshaper keeps no state between samples.
func (d *distortion) Reset() {}
