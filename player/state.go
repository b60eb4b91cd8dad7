// SPDX-License-Identifier: EPL-2.0

package player

import (
	"github.com/ik5/radiobox/catalog"
	"github.com/ik5/radiobox/effects"
)

// PlayState is the file playback state machine.
type PlayState int

const (
	Stopped PlayState = iota
	Playing
	Paused
	// Stopping waits for the completion of a manually stopped file.
	Stopping
	// Advancing is set while the next track is being scheduled after one finished.
	Advancing
)

func (s PlayState) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Stopping:
		return "stopping"
	case Advancing:
		return "advancing"
	}
	return "unknown"
}

// State is the snapshot published to the presentation layer.
type State struct {
	PlayState     PlayState
	IsPlaying     bool
	IsPaused      bool
	IsMonitoring  bool
	Filter        effects.FilterMode
	Volume        float64
	SelectedIndex int
	Track         catalog.Track
}
