// SPDX-License-Identifier: EPL-2.0

// Package engine routes audio between the radio's source nodes, effect
// stages and mixer.
//
// The graph has two topologies. In playback the file player feeds
// eq -> distortion -> delay -> mixer -> output; in monitoring the live input
// takes its place. Noise, beep and heterodyne buffer players feed the mixer
// directly in both. Switching tears down every chain link on a copy of the
// graph, activates the devices the new route needs and only then commits,
// so a failed switch leaves the previous route in place.
//
// Render pulls the output node recursively and is meant to be driven by a
// device.Output.
package engine
