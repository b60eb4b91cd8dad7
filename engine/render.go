// SPDX-License-Identifier: EPL-2.0

package engine

import "github.com/ik5/radiobox/effects"

// Render pulls one block from the output node. It implements device.Renderer.
func (e *Engine) Render(buf []float32) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.router.State() == Idle {
		clear(buf)
		return
	}
	e.pull(e.router.committed(), NodeOutput, buf)
}

func (e *Engine) pull(g *Graph, node NodeID, out []float32) {
	switch node {
	case NodePlayer:
		e.file.read(out)
	case NodeInput:
		e.readInput(out)
	case NodeNoise, NodeBeep, NodeHeterodyne:
		e.aux[node].read(out)
	case NodeEQ:
		e.sumInputs(g, node, out)
		e.chain.Stage(effects.StageEQ).Process(out)
	case NodeDistortion:
		e.sumInputs(g, node, out)
		e.chain.Stage(effects.StageDistortion).Process(out)
	case NodeDelay:
		e.sumInputs(g, node, out)
		e.chain.Stage(effects.StageDelay).Process(out)
	case NodeMixer:
		e.sumInputs(g, node, out)
		for i := range out {
			out[i] *= e.volume
		}
	default:
		e.sumInputs(g, node, out)
	}
}

func (e *Engine) sumInputs(g *Graph, node NodeID, out []float32) {
	inputs := g.inputs[node]
	if len(inputs) == 1 {
		e.pull(g, inputs[0], out)
		return
	}

	clear(out)
	for _, in := range inputs {
		tmp := e.scratchFor(in, len(out))
		e.pull(g, in, tmp)
		for i, v := range tmp {
			out[i] += v
		}
	}
}

func (e *Engine) scratchFor(node NodeID, n int) []float32 {
	buf := e.scratch[node]
	if cap(buf) < n {
		buf = make([]float32, n)
		e.scratch[node] = buf
	}
	return buf[:n]
}

func (e *Engine) readInput(out []float32) {
	if !e.capture {
		clear(out)
		return
	}

	n, err := e.input.ReadSamples(out)
	clear(out[n:])
	if err != nil {
		e.log.WithError(err).Debug("input read failed")
	}
}
