// SPDX-License-Identifier: EPL-2.0

package player

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ik5/radiobox/audio"
	"github.com/ik5/radiobox/catalog"
	"github.com/ik5/radiobox/effects"
	"github.com/ik5/radiobox/engine"
	"github.com/ik5/radiobox/utils"
)

// Engine is the part of *engine.Engine the controller drives.
type Engine interface {
	ScheduleFile(src audio.Source, token uint64, done engine.Completion) error
	PlayFile()
	PauseFile()
	StopFile()
	StartMonitoring() error
	StopMonitoring() error
	ApplyFilter(mode effects.FilterMode) effects.Params
	SetVolume(v float64)
	PlayAux(node engine.NodeID, opts engine.BufferOptions) error
	StopAux(node engine.NodeID)
	PauseAux(node engine.NodeID)
	ResumeAux(node engine.NodeID)
	SetAuxVolume(node engine.NodeID, v float64)
}

// TrackOpener decodes a track by resource name.
type TrackOpener interface {
	Open(name string) (audio.Source, error)
}

// Noise levels used while monitoring and by the squelch effect.
const (
	monitorNoiseHam   = 0.08
	monitorNoise      = 0.03
	squelchOpenLevel  = 0.4
	squelchOpenTail   = 0.04
	squelchOpenDelay  = 80 * time.Millisecond
	squelchCloseLevel = 0.5
	squelchCloseDelay = 150 * time.Millisecond
)

// Options tunes a Controller. Zero durations, counts and tick volume select
// the defaults; Volume and Filter are used as given.
type Options struct {
	Debounce       time.Duration
	MaxTickPlayers int
	TickVolume     float64
	Volume         float64
	Filter         effects.FilterMode

	// Clock returns the current time for debouncing.
	Clock func() time.Time
	// After runs f once d has elapsed. It backs the delayed squelch steps.
	After  func(d time.Duration, f func())
	Logger logrus.FieldLogger
}

const (
	DefaultDebounce       = 150 * time.Millisecond
	DefaultMaxTickPlayers = 8
	DefaultTickVolume     = 0.1
	DefaultVolume         = 0.5
	DefaultFilter         = effects.HamRadio
)

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{
		Debounce:       DefaultDebounce,
		MaxTickPlayers: DefaultMaxTickPlayers,
		TickVolume:     DefaultTickVolume,
		Volume:         DefaultVolume,
		Filter:         DefaultFilter,
	}
}

func (o *Options) fill() {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.MaxTickPlayers <= 0 {
		o.MaxTickPlayers = DefaultMaxTickPlayers
	}
	if o.TickVolume <= 0 {
		o.TickVolume = DefaultTickVolume
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.After == nil {
		o.After = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
}

// Controller serializes every playback operation onto one goroutine. Its
// public methods never block; results are observed through State and
// Subscribe.
type Controller struct {
	eng    Engine
	tracks TrackOpener
	cat    *catalog.Catalog
	sounds *SoundPool
	opts   Options
	log    logrus.FieldLogger

	q    *queue
	done chan struct{}

	// Owned by the queue goroutine.
	state   State
	token   uint64
	squelch uint64

	mu          sync.Mutex
	lastChange  time.Time
	snapshot    State
	subscribers []chan State
	closed      bool
}

// New starts a controller. sounds may be nil to disable ephemeral sounds.
func New(eng Engine, tracks TrackOpener, cat *catalog.Catalog, sounds *SoundPool, opts Options) (*Controller, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, ErrNoCatalog
	}
	opts.fill()
	log := opts.Logger.WithField("component", "controller")
	if !opts.Filter.Valid() {
		log.WithField("op", "new").Warnf("invalid filter mode %d, using %s", int(opts.Filter), DefaultFilter)
		opts.Filter = DefaultFilter
	}

	c := &Controller{
		eng:    eng,
		tracks: tracks,
		cat:    cat,
		sounds: sounds,
		opts:   opts,
		log:    log,
		q:      newQueue(),
		done:   make(chan struct{}),
	}

	vol := utils.Clamp(opts.Volume, 0, 1)
	track, _ := cat.At(0)
	c.state = State{
		PlayState: Stopped,
		Filter:    opts.Filter,
		Volume:    vol,
		Track:     track,
	}
	c.snapshot = c.state

	go func() {
		defer close(c.done)
		c.q.run()
	}()

	c.enqueue(func() {
		c.eng.ApplyFilter(c.state.Filter)
		c.eng.SetVolume(c.state.Volume)
		c.publish()
	})
	return c, nil
}

func (c *Controller) enqueue(op func()) {
	if !c.q.push(op) {
		c.log.Debug("operation dropped, controller closed")
	}
}

// acceptTrackChange applies the debounce window at call time.
func (c *Controller) acceptTrackChange(op string) bool {
	now := c.opts.Clock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lastChange.IsZero() && now.Sub(c.lastChange) < c.opts.Debounce {
		c.log.WithFields(logrus.Fields{"op": op, "since": now.Sub(c.lastChange)}).Debug("debounced")
		return false
	}
	c.lastChange = now
	return true
}

// SelectTrack selects index (clamped to the catalog) and plays it when
// autoPlay is set. It reports false when the call was debounced.
func (c *Controller) SelectTrack(index int, autoPlay bool) bool {
	if !c.acceptTrackChange("select") {
		return false
	}
	c.enqueue(func() { c.selectTrack(index, autoPlay) })
	return true
}

// Next moves to the following track, wrapping after the last.
func (c *Controller) Next() bool {
	if !c.acceptTrackChange("next") {
		return false
	}
	c.enqueue(func() { c.step(1) })
	return true
}

// Previous moves to the preceding track, wrapping before the first.
func (c *Controller) Previous() bool {
	if !c.acceptTrackChange("previous") {
		return false
	}
	c.enqueue(func() { c.step(-1) })
	return true
}

func (c *Controller) Play()   { c.enqueue(c.play) }
func (c *Controller) Pause()  { c.enqueue(c.pause) }
func (c *Controller) Resume() { c.enqueue(c.resume) }
func (c *Controller) Stop()   { c.enqueue(c.stop) }

// TogglePlay pauses while playing and plays otherwise.
func (c *Controller) TogglePlay() {
	c.enqueue(func() {
		if c.state.PlayState == Playing {
			c.pause()
			return
		}
		c.play()
	})
}

// SetVolume sets the output gain, clamped to [0, 1].
func (c *Controller) SetVolume(v float64) {
	c.enqueue(func() {
		c.state.Volume = utils.Clamp(v, 0, 1)
		c.eng.SetVolume(c.state.Volume)
		c.publish()
	})
}

func (c *Controller) SetFilter(mode effects.FilterMode) {
	c.enqueue(func() { c.setFilter(mode) })
}

// PlayEphemeralSound plays name outside the effect chain at speed rate.
func (c *Controller) PlayEphemeralSound(name string, rate float64) {
	c.enqueue(func() {
		if c.sounds == nil {
			return
		}
		if err := c.sounds.Play(name, rate); err != nil {
			c.log.WithFields(logrus.Fields{"op": "sound", "name": name}).WithError(err).Debug("sound not played")
		}
	})
}

func (c *Controller) StartMonitoring()  { c.enqueue(c.startMonitoring) }
func (c *Controller) StopMonitoring()   { c.enqueue(func() { c.stopMonitoring() }) }
func (c *Controller) ToggleMonitoring() { c.enqueue(c.toggleMonitoring) }

// PlayRogerBeep plays the end-of-transmission beep.
func (c *Controller) PlayRogerBeep() {
	c.enqueue(func() {
		if err := c.eng.PlayAux(engine.NodeBeep, engine.BufferOptions{Interrupt: true}); err != nil {
			c.log.WithField("op", "beep").WithError(err).Warn("beep failed")
		}
	})
}

// SquelchOpen bursts static and settles it to a low hiss.
func (c *Controller) SquelchOpen() { c.enqueue(c.squelchOpen) }

// SquelchClose bursts static and then silences it.
func (c *Controller) SquelchClose() { c.enqueue(c.squelchClose) }

// State returns the most recently published state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Subscribe returns a channel receiving every published state. Slow
// readers only see the latest one. The channel is closed by Close.
func (c *Controller) Subscribe() <-chan State {
	ch := make(chan State, 1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		close(ch)
		return ch
	}
	ch <- c.snapshot
	c.subscribers = append(c.subscribers, ch)
	return ch
}

// Sync blocks until every operation queued before it has run.
func (c *Controller) Sync() {
	ch := make(chan struct{})
	if !c.q.push(func() { close(ch) }) {
		return
	}
	<-ch
}

// Close stops playback, drains the queue and closes subscriber channels.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.q.push(func() {
		c.token++
		c.eng.StopFile()
		for _, node := range engine.AuxNodes() {
			c.eng.StopAux(node)
		}
		if c.sounds != nil {
			c.sounds.StopAll()
		}
		c.setPlayState(Stopped)
		c.state.IsMonitoring = false
		c.publish()
	})
	c.q.close()
	<-c.done

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subscribers {
		close(ch)
	}
	c.subscribers = nil
	return nil
}

// publish stores and broadcasts the current state. Queue goroutine only.
func (c *Controller) publish() {
	s := c.state

	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot = s
	for _, ch := range c.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}

func (c *Controller) setPlayState(s PlayState) {
	c.state.PlayState = s
	c.state.IsPlaying = s == Playing || s == Advancing
	c.state.IsPaused = s == Paused
}

func (c *Controller) fields(op string) logrus.Fields {
	return logrus.Fields{
		"op":    op,
		"index": c.state.SelectedIndex,
		"state": c.state.PlayState.String(),
		"token": c.token,
	}
}

func (c *Controller) selectIndex(i int) {
	c.state.SelectedIndex = i
	c.state.Track, _ = c.cat.At(i)
}

func (c *Controller) selectTrack(index int, autoPlay bool) {
	c.selectIndex(c.cat.Clamp(index))

	if autoPlay {
		c.playCurrent()
		c.publish()
		return
	}

	if c.state.PlayState == Playing || c.state.PlayState == Paused {
		c.setPlayState(Stopping)
		c.eng.StopFile()
	}
	c.publish()
}

func (c *Controller) step(delta int) {
	wasPlaying := c.state.PlayState == Playing
	c.selectIndex(c.cat.Wrap(c.state.SelectedIndex + delta))

	switch {
	case wasPlaying:
		c.playCurrent()
	case c.state.PlayState == Paused:
		c.setPlayState(Stopping)
		c.eng.StopFile()
	}
	c.publish()
}

// playCurrent schedules the selected track and starts it. On failure the
// previous play state is kept.
func (c *Controller) playCurrent() bool {
	if c.state.IsMonitoring && !c.stopMonitoring() {
		return false
	}

	track := c.state.Track
	src, err := c.tracks.Open(track.Filename)
	if err != nil {
		c.log.WithFields(c.fields("play")).WithField("track", track.Filename).WithError(err).Error("open track failed")
		return false
	}

	c.token++
	token := c.token
	if err := c.eng.ScheduleFile(src, token, c.onComplete); err != nil {
		_ = src.Close()
		c.log.WithFields(c.fields("play")).WithError(err).Error("schedule failed")
		return false
	}
	c.eng.PlayFile()
	c.setPlayState(Playing)

	c.log.WithFields(c.fields("play")).WithField("track", track.Filename).Info("playing")
	return true
}

func (c *Controller) play() {
	switch c.state.PlayState {
	case Playing:
		return
	case Paused:
		c.resume()
		return
	}
	c.playCurrent()
	c.publish()
}

func (c *Controller) pause() {
	if c.state.PlayState != Playing {
		return
	}
	c.eng.PauseFile()
	c.eng.PauseAux(engine.NodeNoise)
	c.setPlayState(Paused)
	c.publish()
}

func (c *Controller) resume() {
	if c.state.PlayState != Paused {
		return
	}
	c.eng.PlayFile()
	c.eng.ResumeAux(engine.NodeNoise)
	c.setPlayState(Playing)
	c.publish()
}

func (c *Controller) stop() {
	if c.state.PlayState != Playing && c.state.PlayState != Paused {
		return
	}
	c.setPlayState(Stopping)
	c.eng.StopFile()
	c.publish()
}

// onComplete runs on an engine goroutine and hands the event to the queue.
func (c *Controller) onComplete(token uint64, reason engine.Reason) {
	c.enqueue(func() { c.complete(token, reason) })
}

func (c *Controller) complete(token uint64, reason engine.Reason) {
	if token != c.token {
		c.log.WithFields(c.fields("complete")).WithField("stale", token).Debug("stale completion ignored")
		return
	}

	switch {
	case c.state.PlayState == Playing && reason == engine.Finished:
		c.setPlayState(Advancing)
		c.selectIndex(c.cat.Wrap(c.state.SelectedIndex + 1))
		if !c.playCurrent() {
			c.setPlayState(Stopped)
		}
	case c.state.PlayState == Stopping, c.state.PlayState == Playing, c.state.PlayState == Paused:
		c.setPlayState(Stopped)
	default:
		return
	}
	c.publish()
}

func (c *Controller) setFilter(mode effects.FilterMode) {
	if !mode.Valid() {
		c.log.WithField("op", "filter").Warnf("invalid filter mode %d", int(mode))
		return
	}

	c.state.Filter = mode
	c.eng.ApplyFilter(mode)
	if c.state.IsMonitoring {
		c.applyMonitorArtifacts()
	}
	c.publish()
}

func (c *Controller) monitorNoiseLevel() float64 {
	if c.state.Filter == effects.HamRadio {
		return monitorNoiseHam
	}
	return monitorNoise
}

// applyMonitorArtifacts sets the noise level and the heterodyne for the
// current filter while monitoring.
func (c *Controller) applyMonitorArtifacts() {
	c.eng.SetAuxVolume(engine.NodeNoise, c.monitorNoiseLevel())

	if c.state.Filter == effects.HamRadio {
		if err := c.eng.PlayAux(engine.NodeHeterodyne, engine.BufferOptions{Loop: true, Interrupt: true}); err != nil {
			c.log.WithField("op", "heterodyne").WithError(err).Warn("heterodyne failed")
		}
		return
	}
	c.eng.StopAux(engine.NodeHeterodyne)
}

func (c *Controller) startMonitoring() {
	if c.state.IsMonitoring {
		return
	}

	if c.state.PlayState == Playing || c.state.PlayState == Paused {
		c.setPlayState(Stopping)
	}

	if err := c.eng.StartMonitoring(); err != nil {
		c.log.WithFields(c.fields("monitor")).WithError(err).Error("start monitoring failed")
		c.publish()
		return
	}

	c.state.IsMonitoring = true
	c.eng.SetAuxVolume(engine.NodeNoise, c.monitorNoiseLevel())
	if err := c.eng.PlayAux(engine.NodeNoise, engine.BufferOptions{Loop: true, Interrupt: true}); err != nil {
		c.log.WithField("op", "noise").WithError(err).Warn("noise failed")
	}
	c.applyMonitorArtifacts()

	c.log.WithFields(c.fields("monitor")).Info("monitoring started")
	c.publish()
}

// stopMonitoring restores the playback route and reports whether the
// controller is no longer monitoring.
func (c *Controller) stopMonitoring() bool {
	if !c.state.IsMonitoring {
		return true
	}

	if err := c.eng.StopMonitoring(); err != nil {
		c.log.WithFields(c.fields("monitor")).WithError(err).Error("stop monitoring failed")
		return false
	}

	c.eng.StopAux(engine.NodeNoise)
	c.eng.StopAux(engine.NodeHeterodyne)
	c.state.IsMonitoring = false

	c.log.WithFields(c.fields("monitor")).Info("monitoring stopped")
	c.publish()
	return true
}

func (c *Controller) toggleMonitoring() {
	if c.state.IsMonitoring {
		c.stopMonitoring()
		return
	}
	c.startMonitoring()
}

// later re-queues f after d unless another squelch step superseded it.
func (c *Controller) later(d time.Duration, f func()) {
	gen := c.squelch
	c.opts.After(d, func() {
		c.enqueue(func() {
			if gen == c.squelch {
				f()
			}
		})
	})
}

func (c *Controller) squelchOpen() {
	c.squelch++
	c.eng.SetAuxVolume(engine.NodeNoise, squelchOpenLevel)
	if err := c.eng.PlayAux(engine.NodeNoise, engine.BufferOptions{Loop: true, Interrupt: true}); err != nil {
		c.log.WithField("op", "squelch").WithError(err).Warn("noise failed")
		return
	}
	c.later(squelchOpenDelay, func() {
		c.eng.SetAuxVolume(engine.NodeNoise, squelchOpenTail)
	})
}

func (c *Controller) squelchClose() {
	c.squelch++
	c.eng.SetAuxVolume(engine.NodeNoise, squelchCloseLevel)
	if err := c.eng.PlayAux(engine.NodeNoise, engine.BufferOptions{Loop: true, Interrupt: true}); err != nil {
		c.log.WithField("op", "squelch").WithError(err).Warn("noise failed")
		return
	}
	c.later(squelchCloseDelay, func() {
		if c.state.IsMonitoring {
			c.eng.SetAuxVolume(engine.NodeNoise, c.monitorNoiseLevel())
			return
		}
		c.eng.StopAux(engine.NodeNoise)
	})
}
