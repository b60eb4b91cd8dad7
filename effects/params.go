// SPDX-License-Identifier: EPL-2.0

package effects

// Stage identifies one element of the effect chain.
type Stage int

const (
	StageEQ Stage = iota
	StageDistortion
	StageDelay
)

func (s Stage) String() string {
	switch s {
	case StageEQ:
		return "eq"
	case StageDistortion:
		return "distortion"
	case StageDelay:
		return "delay"
	}
	return "unknown"
}

// Stages lists the chain in signal order.
func Stages() []Stage {
	return []Stage{StageEQ, StageDistortion, StageDelay}
}

// BandType is the filter shape of an equalizer band.
type BandType int

const (
	Parametric BandType = iota
	HighPass
	LowPass
)

func (b BandType) String() string {
	switch b {
	case Parametric:
		return "parametric"
	case HighPass:
		return "high-pass"
	case LowPass:
		return "low-pass"
	}
	return "unknown"
}

// Band configures one equalizer band. Bandwidth is in octaves, Gain in dB
// and only used by parametric bands.
type Band struct {
	Type      BandType
	Frequency float64
	Gain      float64
	Bandwidth float64
	Bypass    bool
}

// NumBands is the size of the equalizer.
const NumBands = 3

type EQParams struct {
	Bypass bool
	Bands  [NumBands]Band
}

// DistortionPreset selects the waveshaper curve.
type DistortionPreset int

const (
	BrokenSpeaker DistortionPreset = iota
	DistortedSquared
)

func (d DistortionPreset) String() string {
	switch d {
	case BrokenSpeaker:
		return "broken-speaker"
	case DistortedSquared:
		return "distorted-squared"
	}
	return "unknown"
}

// DistortionParams configures the waveshaper. PreGain is in dB and
// WetDryMix in percent.
type DistortionParams struct {
	Preset    DistortionPreset
	PreGain   float64
	WetDryMix float64
	Bypass    bool
}

// DelayParams configures the echo. Time is in seconds, Feedback and
// WetDryMix in percent.
type DelayParams struct {
	Time      float64
	Feedback  float64
	WetDryMix float64
	Bypass    bool
}

// Params is the complete configuration of every stage for one mode.
type Params struct {
	Mode       FilterMode
	EQ         EQParams
	Distortion DistortionParams
	Delay      DelayParams
}

// Bypassed reports whether stage s is disabled.
func (p Params) Bypassed(s Stage) bool {
	switch s {
	case StageEQ:
		return p.EQ.Bypass
	case StageDistortion:
		return p.Distortion.Bypass
	case StageDelay:
		return p.Delay.Bypass
	}
	return true
}

// Enabled returns the stages that are not bypassed.
func (p Params) Enabled() []Stage {
	var out []Stage
	for _, s := range Stages() {
		if !p.Bypassed(s) {
			out = append(out, s)
		}
	}
	return out
}

// Signature returns the single enabled stage. ok is false when zero or
// several stages are enabled.
func (p Params) Signature() (s Stage, ok bool) {
	enabled := p.Enabled()
	if len(enabled) != 1 {
		return 0, false
	}
	return enabled[0], true
}

func neutralBand() Band {
	return Band{Type: Parametric, Frequency: 1000, Gain: 0, Bandwidth: 1, Bypass: true}
}

// neutral is the starting point of every mode: all stages bypassed with
// zeroed settings, so nothing from a previous mode can leak through.
func neutral(mode FilterMode) Params {
	p := Params{
		Mode: mode,
		EQ:   EQParams{Bypass: true},
		Distortion: DistortionParams{
			Preset: BrokenSpeaker,
			Bypass: true,
		},
		Delay: DelayParams{Bypass: true},
	}
	for i := range p.EQ.Bands {
		p.EQ.Bands[i] = neutralBand()
	}
	return p
}

// ParamsFor returns the full parameter table of mode. Unknown modes yield
// every stage bypassed.
func ParamsFor(mode FilterMode) Params {
	p := neutral(mode)

	switch mode {
	case AMRadio:
		p.EQ.Bypass = false
		p.EQ.Bands[0] = Band{Type: HighPass, Frequency: 300, Bandwidth: 1.9}
		p.EQ.Bands[1] = Band{Type: LowPass, Frequency: 3000, Bandwidth: 1.9}
	case FMVintage:
		p.EQ.Bypass = false
		p.EQ.Bands[0] = Band{Type: Parametric, Frequency: 500, Gain: 6, Bandwidth: 1}
	case HamRadio:
		p.Delay = DelayParams{Time: 0.02, Feedback: 40, WetDryMix: 30}
	case WalkieTalkie:
		p.Distortion = DistortionParams{Preset: BrokenSpeaker, PreGain: -5, WetDryMix: 20}
	}

	return p
}
