// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// RouteState is the topology currently committed to the graph.
type RouteState int

const (
	Idle RouteState = iota
	PlaybackRouted
	MonitoringRouted
)

func (s RouteState) String() string {
	switch s {
	case Idle:
		return "idle"
	case PlaybackRouted:
		return "playback"
	case MonitoringRouted:
		return "monitoring"
	}
	return "unknown"
}

// chainLinks are the nodes whose inputs are torn down on every re-route.
var chainLinks = []NodeID{NodeEQ, NodeDistortion, NodeDelay, NodeMixer}

// Activator brings devices and the session into the mode a route needs.
// It runs after the new graph is built and before it is committed.
type Activator func(target RouteState) error

// Router switches the graph between the playback and monitoring topologies.
// A failed switch leaves the previous graph and state untouched.
type Router struct {
	graph    *Graph
	state    RouteState
	activate Activator
	log      logrus.FieldLogger
}

func NewRouter(activate Activator, log logrus.FieldLogger) *Router {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Router{
		graph:    NewGraph(),
		activate: activate,
		log:      log,
	}
}

func (r *Router) State() RouteState { return r.state }

// Graph returns a copy of the committed graph.
func (r *Router) Graph() *Graph { return r.graph.Clone() }

// committed returns the live graph for read-only use on the render path.
func (r *Router) committed() *Graph { return r.graph }

// RoutePlayback connects the file player into the chain.
func (r *Router) RoutePlayback() error {
	return r.route(PlaybackRouted, NodePlayer)
}

// RouteMonitoring connects the live input into the chain.
func (r *Router) RouteMonitoring() error {
	return r.route(MonitoringRouted, NodeInput)
}

// Reset drops every connection and returns to Idle.
func (r *Router) Reset() {
	r.graph = NewGraph()
	r.state = Idle
}

func (r *Router) route(target RouteState, source NodeID) error {
	fields := logrus.Fields{
		"component": "router",
		"op":        "route",
		"from":      r.state.String(),
		"to":        target.String(),
	}

	next, err := buildRoute(r.graph, source)
	if err != nil {
		r.log.WithFields(fields).WithError(err).Error("rebuild graph failed")
		return fmt.Errorf("route %s: %w", target, err)
	}

	if r.activate != nil {
		if err := r.activate(target); err != nil {
			r.log.WithFields(fields).WithError(err).Error("activation failed, keeping previous route")
			return fmt.Errorf("route %s: %w", target, err)
		}
	}

	r.graph = next
	r.state = target
	r.log.WithFields(fields).Debug("route committed")
	return nil
}

// buildRoute returns a copy of g with every chain link torn down and
// rebuilt around source.
func buildRoute(g *Graph, source NodeID) (*Graph, error) {
	next := g.Clone()
	for _, n := range chainLinks {
		next.DisconnectInput(n)
	}

	links := []Edge{
		{source, NodeEQ},
		{NodeEQ, NodeDistortion},
		{NodeDistortion, NodeDelay},
		{NodeDelay, NodeMixer},
	}
	for _, aux := range AuxNodes() {
		links = append(links, Edge{aux, NodeMixer})
	}
	links = append(links, Edge{NodeMixer, NodeOutput})

	for _, e := range links {
		if err := next.Connect(e.From, e.To); err != nil {
			return nil, err
		}
	}
	return next, nil
}
