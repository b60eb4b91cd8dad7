// SPDX-License-Identifier: EPL-2.0

package player

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ik5/radiobox/audio"
	"github.com/ik5/radiobox/device"
)

// SoundOpener decodes a named UI sound.
type SoundOpener interface {
	OpenSound(name string) (audio.Source, error)
}

const (
	tickClass = "tick"
	uiVolume  = 1.0
)

// SoundPool plays ephemeral sounds on handles outside the effect chain.
// Sounds whose name contains "tick" share a capped class; every other sound
// uses a single slot that the next sound replaces. It is used only from the
// controller goroutine.
type SoundPool struct {
	out      device.SoundOutput
	sounds   SoundOpener
	rate     int
	channels int

	maxTicks   int
	tickVolume float64
	log        logrus.FieldLogger

	ticks []device.Handle
	ui    device.Handle
}

// NewSoundPool plays through out at the given format.
func NewSoundPool(out device.SoundOutput, sounds SoundOpener, rate, channels, maxTicks int, tickVolume float64, log logrus.FieldLogger) *SoundPool {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SoundPool{
		out:        out,
		sounds:     sounds,
		rate:       rate,
		channels:   channels,
		maxTicks:   maxTicks,
		tickVolume: tickVolume,
		log:        log.WithField("component", "sounds"),
	}
}

// ActiveTicks returns the number of tick handles still playing.
func (p *SoundPool) ActiveTicks() int {
	p.prune()
	return len(p.ticks)
}

func (p *SoundPool) prune() {
	live := p.ticks[:0]
	for _, h := range p.ticks {
		if h.IsPlaying() {
			live = append(live, h)
		}
	}
	clear(p.ticks[len(live):])
	p.ticks = live
}

// Play starts name at speed rate (1 is normal). Tick sounds beyond the cap
// are dropped with ErrSoundDropped.
func (p *SoundPool) Play(name string, rate float64) error {
	if p.out == nil || p.sounds == nil {
		return nil
	}

	tick := strings.Contains(strings.ToLower(name), tickClass)
	if tick {
		p.prune()
		if len(p.ticks) >= p.maxTicks {
			return ErrSoundDropped
		}
	}

	src, err := p.open(name, rate)
	if err != nil {
		return err
	}

	volume := uiVolume
	if tick {
		volume = p.tickVolume
	}

	h, err := p.out.PlaySound(src, volume)
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("play %s: %w", name, err)
	}

	if tick {
		p.ticks = append(p.ticks, h)
		return nil
	}

	if p.ui != nil {
		if err := p.ui.Stop(); err != nil {
			p.log.WithError(err).Debug("stop previous sound failed")
		}
	}
	p.ui = h
	return nil
}

func (p *SoundPool) open(name string, rate float64) (audio.Source, error) {
	src, err := p.sounds.OpenSound(name)
	if err != nil {
		return nil, err
	}

	if rate <= 0 {
		rate = 1
	}
	fast, err := audio.WithSpeed(src, rate)
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("speed %s: %w", name, err)
	}

	conv, err := audio.Convert(fast, p.rate, p.channels)
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("convert %s: %w", name, err)
	}
	return conv, nil
}

// StopAll stops every playing sound.
func (p *SoundPool) StopAll() {
	for _, h := range p.ticks {
		_ = h.Stop()
	}
	p.ticks = nil
	if p.ui != nil {
		_ = p.ui.Stop()
		p.ui = nil
	}
}
