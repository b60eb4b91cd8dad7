// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"
	"slices"
	"strings"
)

// NodeID names a node of the routing graph.
type NodeID string

const (
	NodePlayer     NodeID = "player"
	NodeInput      NodeID = "input"
	NodeEQ         NodeID = "eq"
	NodeDistortion NodeID = "distortion"
	NodeDelay      NodeID = "delay"
	NodeNoise      NodeID = "noise"
	NodeBeep       NodeID = "beep"
	NodeHeterodyne NodeID = "heterodyne"
	NodeMixer      NodeID = "mixer"
	NodeOutput     NodeID = "output"
)

// Nodes lists every node the engine owns.
func Nodes() []NodeID {
	return []NodeID{
		NodePlayer, NodeInput,
		NodeEQ, NodeDistortion, NodeDelay,
		NodeNoise, NodeBeep, NodeHeterodyne,
		NodeMixer, NodeOutput,
	}
}

// AuxNodes are the buffer players feeding the mixer directly.
func AuxNodes() []NodeID {
	return []NodeID{NodeNoise, NodeBeep, NodeHeterodyne}
}

func knownNode(id NodeID) bool {
	return slices.Contains(Nodes(), id)
}

// Edge is a connection from the output of From to an input of To.
type Edge struct {
	From NodeID
	To   NodeID
}

func (e Edge) String() string { return string(e.From) + "->" + string(e.To) }

// Graph is a directed acyclic graph of node connections, stored as the
// ordered input list of every node. It is not safe for concurrent use.
type Graph struct {
	inputs map[NodeID][]NodeID
}

func NewGraph() *Graph {
	return &Graph{inputs: make(map[NodeID][]NodeID)}
}

// Connect adds from -> to. Connecting an existing edge is a no-op.
func (g *Graph) Connect(from, to NodeID) error {
	if !knownNode(from) {
		return fmt.Errorf("%w: %s", ErrUnknownNode, from)
	}
	if !knownNode(to) {
		return fmt.Errorf("%w: %s", ErrUnknownNode, to)
	}
	if slices.Contains(g.inputs[to], from) {
		return nil
	}
	if from == to || g.Reaches(to, from) {
		return fmt.Errorf("%w: %s->%s", ErrCycle, from, to)
	}

	g.inputs[to] = append(g.inputs[to], from)
	return nil
}

// DisconnectInput removes every connection into node.
func (g *Graph) DisconnectInput(node NodeID) {
	delete(g.inputs, node)
}

// Inputs returns the nodes connected into node, in connection order.
func (g *Graph) Inputs(node NodeID) []NodeID {
	return slices.Clone(g.inputs[node])
}

// Reaches reports whether a path leads from from to to.
func (g *Graph) Reaches(from, to NodeID) bool {
	seen := map[NodeID]bool{}
	stack := []NodeID{to}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == from {
			return true
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		stack = append(stack, g.inputs[n]...)
	}
	return false
}

// Edges returns all connections sorted by destination, then source.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for to, froms := range g.inputs {
		for _, from := range froms {
			out = append(out, Edge{From: from, To: to})
		}
	}
	slices.SortFunc(out, func(a, b Edge) int {
		if c := strings.Compare(string(a.To), string(b.To)); c != 0 {
			return c
		}
		return strings.Compare(string(a.From), string(b.From))
	})
	return out
}

func (g *Graph) Clone() *Graph {
	c := NewGraph()
	for to, froms := range g.inputs {
		c.inputs[to] = slices.Clone(froms)
	}
	return c
}

// Equal reports whether both graphs hold the same set of connections.
func (g *Graph) Equal(o *Graph) bool {
	return slices.Equal(g.Edges(), o.Edges())
}

func (g *Graph) String() string {
	edges := g.Edges()
	parts := make([]string, len(edges))
	for i, e := range edges {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}
