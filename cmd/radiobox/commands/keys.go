// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"math"

	"github.com/ik5/radiobox/effects"
	"github.com/ik5/radiobox/player"
)

type action int

const (
	actNone action = iota
	actTogglePlay
	actNext
	actPrevious
	actSelect
	actStop
	actVolumeUp
	actVolumeDown
	actFilter
	actMonitor
	actRoger
	actSquelchOpen
	actSquelchClose
	actQuit
)

// keyAction maps a raw key to an action. For actSelect the second value is
// the preset index: keys 1-9 select 0-8 and 0 selects 9.
func keyAction(b byte) (action, int) {
	switch b {
	case ' ':
		return actTogglePlay, 0
	case 'n', 'N':
		return actNext, 0
	case 'p', 'P':
		return actPrevious, 0
	case 's', 'S':
		return actStop, 0
	case '+', '=':
		return actVolumeUp, 0
	case '-', '_':
		return actVolumeDown, 0
	case 'f', 'F':
		return actFilter, 0
	case 'm', 'M':
		return actMonitor, 0
	case 'r', 'R':
		return actRoger, 0
	case 'o', 'O':
		return actSquelchOpen, 0
	case 'c', 'C':
		return actSquelchClose, 0
	case 'q', 'Q', 3, 4:
		return actQuit, 0
	case '0':
		return actSelect, 9
	}
	if b >= '1' && b <= '9' {
		return actSelect, int(b - '1')
	}
	return actNone, 0
}

// quantize snaps v in [0, 1] to one of steps+1 detents and returns the
// detent index with its value.
func quantize(v float64, steps int) (int, float64) {
	if steps < 1 {
		steps = 1
	}
	if math.IsNaN(v) {
		v = 0
	}
	i := int(math.Round(math.Min(math.Max(v, 0), 1) * float64(steps)))
	return i, float64(i) / float64(steps)
}

// tickRate is the playback speed of the knob tick at volume v.
func tickRate(v float64) float64 { return 0.7 + v }

// controls is the part of *player.Controller the key loop drives.
type controls interface {
	TogglePlay()
	Next() bool
	Previous() bool
	SelectTrack(index int, autoPlay bool) bool
	Stop()
	SetVolume(v float64)
	SetFilter(mode effects.FilterMode)
	ToggleMonitoring()
	PlayRogerBeep()
	SquelchOpen()
	SquelchClose()
	PlayEphemeralSound(name string, rate float64)
	State() player.State
}

// knobs turns key actions into controller calls. It keeps its own volume
// detent and filter, seeded from the controller on first use, because the
// published state lags queued operations.
type knobs struct {
	ctl   controls
	steps int

	seeded bool
	detent int
	filter effects.FilterMode
}

func newKnobs(ctl controls, steps int) *knobs {
	return &knobs{ctl: ctl, steps: max(steps, 1)}
}

func (k *knobs) seed() {
	if k.seeded {
		return
	}
	st := k.ctl.State()
	k.detent, _ = quantize(st.Volume, k.steps)
	k.filter = st.Filter
	k.seeded = true
}

// apply performs a and reports whether the loop should quit.
func (k *knobs) apply(a action, index int) bool {
	switch a {
	case actTogglePlay:
		k.ctl.TogglePlay()
		k.ctl.PlayEphemeralSound("click", 1)
	case actNext:
		if k.ctl.Next() {
			k.ctl.PlayEphemeralSound("tick", 1)
		}
	case actPrevious:
		if k.ctl.Previous() {
			k.ctl.PlayEphemeralSound("tick", 1)
		}
	case actSelect:
		if k.ctl.SelectTrack(index, true) {
			k.ctl.PlayEphemeralSound("click", 1)
		}
	case actStop:
		k.ctl.Stop()
	case actVolumeUp:
		k.turnVolume(1)
	case actVolumeDown:
		k.turnVolume(-1)
	case actFilter:
		k.seed()
		k.filter = k.filter.Next()
		k.ctl.SetFilter(k.filter)
		k.ctl.PlayEphemeralSound("toggle", 1)
	case actMonitor:
		k.ctl.ToggleMonitoring()
		k.ctl.PlayEphemeralSound("toggle", 1)
	case actRoger:
		k.ctl.PlayRogerBeep()
	case actSquelchOpen:
		k.ctl.SquelchOpen()
	case actSquelchClose:
		k.ctl.SquelchClose()
	case actQuit:
		return true
	}
	return false
}

func (k *knobs) turnVolume(delta int) {
	k.seed()
	next := min(max(k.detent+delta, 0), k.steps)
	if next == k.detent {
		return
	}
	k.detent = next
	v := float64(next) / float64(k.steps)
	k.ctl.SetVolume(v)
	k.ctl.PlayEphemeralSound("tick", tickRate(v))
}
