// SPDX-License-Identifier: EPL-2.0

package effects

// Processor transforms an interleaved buffer in place.
type Processor interface {
	Process(buf []float32)
	Reset()
}

// Chain holds the DSP state of the equalizer, distortion and delay stages.
// A Chain is not safe for concurrent use; the engine serializes access.
type Chain struct {
	sampleRate int
	channels   int

	params Params
	eq     *equalizer
	dist   *distortion
	delay  *delayLine
}

// NewChain returns a chain with every stage bypassed.
func NewChain(sampleRate, channels int) (*Chain, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if channels <= 0 {
		return nil, ErrInvalidChannels
	}

	c := &Chain{
		sampleRate: sampleRate,
		channels:   channels,
		eq:         newEqualizer(sampleRate, channels),
		dist:       &distortion{},
		delay:      newDelayLine(sampleRate, channels),
	}
	c.Apply(neutral(AMRadio))
	return c, nil
}

// Apply replaces the configuration of every stage with p and clears all
// filter and delay history.
func (c *Chain) Apply(p Params) {
	c.params = p
	c.eq.configure(p.EQ, c.sampleRate)
	c.dist.configure(p.Distortion)
	c.delay.configure(p.Delay)
}

// ApplyMode is Apply(ParamsFor(mode)).
func (c *Chain) ApplyMode(mode FilterMode) Params {
	p := ParamsFor(mode)
	c.Apply(p)
	return p
}

// Params returns the active configuration.
func (c *Chain) Params() Params { return c.params }

// Stage returns the processor for s. Unknown stages return nil.
func (c *Chain) Stage(s Stage) Processor {
	switch s {
	case StageEQ:
		return c.eq
	case StageDistortion:
		return c.dist
	case StageDelay:
		return c.delay
	}
	return nil
}

// Process runs buf through every stage in signal order.
func (c *Chain) Process(buf []float32) {
	c.eq.Process(buf)
	c.dist.Process(buf)
	c.delay.Process(buf)
}

// Reset clears filter and delay history without changing parameters.
func (c *Chain) Reset() {
	c.eq.Reset()
	c.dist.Reset()
	c.delay.Reset()
}
