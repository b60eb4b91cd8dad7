// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ik5/radiobox/audio"
	"github.com/ik5/radiobox/device"
	"github.com/ik5/radiobox/effects"
	"github.com/ik5/radiobox/synth"
)

// Config assembles an Engine. Input may be nil, in which case monitoring
// fails with ErrNoInput.
type Config struct {
	SampleRate int
	Channels   int
	Bank       *synth.Bank
	Session    device.Session
	Input      device.Input
	Logger     logrus.FieldLogger
}

// Engine owns the node graph, the effect chain and every source node. One
// mutex guards it; Render takes it on the output goroutine and all other
// methods take it on the caller's goroutine.
type Engine struct {
	mu sync.Mutex

	rate     int
	channels int
	log      logrus.FieldLogger

	session device.Session
	input   device.Input
	bank    *synth.Bank

	router  *Router
	chain   *effects.Chain
	file    *FilePlayer
	aux     map[NodeID]*BufferPlayer
	volume  float32
	filter  effects.FilterMode
	capture bool

	scratch map[NodeID][]float32
	closed  bool
}

func New(cfg Config) (*Engine, error) {
	if cfg.Bank == nil {
		return nil, ErrNoBank
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	session := cfg.Session
	if session == nil {
		session = device.NewNopSession(log)
	}

	for name, buf := range cfg.Bank.Named() {
		if buf.SampleRate != cfg.SampleRate || buf.Channels != cfg.Channels {
			return nil, fmt.Errorf("%w: %s is %d Hz/%d ch", ErrFormatMismatch, name, buf.SampleRate, buf.Channels)
		}
	}

	chain, err := effects.NewChain(cfg.SampleRate, cfg.Channels)
	if err != nil {
		return nil, fmt.Errorf("effect chain: %w", err)
	}

	e := &Engine{
		rate:     cfg.SampleRate,
		channels: cfg.Channels,
		log:      log.WithField("component", "engine"),
		session:  session,
		input:    cfg.Input,
		bank:     cfg.Bank,
		chain:    chain,
		file:     newFilePlayer(log),
		aux: map[NodeID]*BufferPlayer{
			NodeNoise:      newBufferPlayer(),
			NodeBeep:       newBufferPlayer(),
			NodeHeterodyne: newBufferPlayer(),
		},
		volume:  1,
		scratch: make(map[NodeID][]float32),
	}
	e.router = NewRouter(e.activate, log)
	return e, nil
}

func (e *Engine) SampleRate() int { return e.rate }
func (e *Engine) Channels() int   { return e.channels }

// activate switches the session category and starts or stops capture to
// match target. It is called by the router with e.mu held.
func (e *Engine) activate(target RouteState) error {
	switch target {
	case MonitoringRouted:
		if e.input == nil {
			return ErrNoInput
		}
		if err := e.session.SetCategory(device.CategoryPlayAndRecord); err != nil {
			return fmt.Errorf("session category: %w", err)
		}
		if err := e.session.SetActive(true); err != nil {
			_ = e.session.SetCategory(device.CategoryPlayback)
			return fmt.Errorf("session activate: %w", err)
		}
		if !e.capture {
			if err := e.input.Start(); err != nil {
				_ = e.session.SetCategory(device.CategoryPlayback)
				return fmt.Errorf("start input: %w", err)
			}
			e.capture = true
		}
	default:
		if err := e.session.SetCategory(device.CategoryPlayback); err != nil {
			return fmt.Errorf("session category: %w", err)
		}
		if err := e.session.SetActive(true); err != nil {
			return fmt.Errorf("session activate: %w", err)
		}
		if e.capture {
			if err := e.input.Stop(); err != nil {
				e.log.WithError(err).Warn("stop input failed")
			}
			e.capture = false
		}
	}
	return nil
}

// State returns the committed route.
func (e *Engine) State() RouteState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.router.State()
}

// Graph returns a copy of the committed graph.
func (e *Engine) Graph() *Graph {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.router.Graph()
}

// Prepare routes playback if the engine is still idle.
func (e *Engine) Prepare() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ensureRouted()
}

func (e *Engine) ensureRouted() error {
	if e.closed {
		return ErrClosed
	}
	if e.router.State() != Idle {
		return nil
	}
	return e.router.RoutePlayback()
}

// ensurePlayback routes an idle engine and rejects any route the file
// player is not part of.
func (e *Engine) ensurePlayback() error {
	if err := e.ensureRouted(); err != nil {
		return err
	}
	if e.router.State() != PlaybackRouted {
		return ErrMonitoring
	}
	return nil
}

// ScheduleFile converts src to the engine format and loads it on the file
// player, replacing any pending file. Playback starts on PlayFile. The
// file player must be routed: an idle engine routes playback first, a
// monitoring engine returns ErrMonitoring and keeps the current file.
func (e *Engine) ScheduleFile(src audio.Source, token uint64, done Completion) error {
	conv, err := audio.Convert(src, e.rate, e.channels)
	if err != nil {
		return fmt.Errorf("convert source: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ensurePlayback(); err != nil {
		return err
	}

	e.file.schedule(conv, token, done)
	e.log.WithFields(logrus.Fields{"op": "schedule", "token": token}).Debug("file scheduled")
	return nil
}

func (e *Engine) PlayFile() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.file.play()
}

func (e *Engine) PauseFile() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.file.pause()
}

// StopFile unloads the current file; its completion fires with Stopped.
func (e *Engine) StopFile() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.file.stop()
}

// FilePlaying reports whether the file player is producing audio.
func (e *Engine) FilePlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.file.Playing()
}

// StartMonitoring stops file playback and routes the live input.
func (e *Engine) StartMonitoring() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	e.file.stop()
	return e.router.RouteMonitoring()
}

// StopMonitoring restores the playback topology.
func (e *Engine) StopMonitoring() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	return e.router.RoutePlayback()
}

// ApplyFilter reconfigures every effect stage for mode.
func (e *Engine) ApplyFilter(mode effects.FilterMode) effects.Params {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.filter = mode
	p := e.chain.ApplyMode(mode)
	e.log.WithFields(logrus.Fields{
		"op":     "filter",
		"mode":   mode.String(),
		"stages": p.Enabled(),
	}).Debug("filter applied")
	return p
}

// Params returns the active effect configuration.
func (e *Engine) Params() effects.Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.chain.Params()
}

// SetVolume sets the mixer output gain, clamped to [0, 1].
func (e *Engine) SetVolume(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = float32(clampUnit(v))
}

func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return float64(e.volume)
}

func (e *Engine) bufferFor(node NodeID) (*synth.Buffer, *BufferPlayer, error) {
	var buf *synth.Buffer
	switch node {
	case NodeNoise:
		buf = e.bank.Noise
	case NodeBeep:
		buf = e.bank.Beep
	case NodeHeterodyne:
		buf = e.bank.Heterodyne
	default:
		return nil, nil, fmt.Errorf("%w: %s is not an aux node", ErrUnknownNode, node)
	}
	return buf, e.aux[node], nil
}

// PlayAux schedules the bank buffer of node and starts it.
func (e *Engine) PlayAux(node NodeID, opts BufferOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	buf, p, err := e.bufferFor(node)
	if err != nil {
		return err
	}
	if err := e.ensureRouted(); err != nil {
		return err
	}

	p.schedule(buf, opts)
	p.play()
	return nil
}

func (e *Engine) StopAux(node NodeID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p, ok := e.aux[node]; ok {
		p.stop()
	}
}

// PauseAux holds node at its current position.
func (e *Engine) PauseAux(node NodeID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p, ok := e.aux[node]; ok {
		p.pause()
	}
}

// ResumeAux continues a paused node. A stopped node stays silent.
func (e *Engine) ResumeAux(node NodeID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p, ok := e.aux[node]; ok {
		p.play()
	}
}

func (e *Engine) SetAuxVolume(node NodeID, v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p, ok := e.aux[node]; ok {
		p.setVolume(float32(clampUnit(v)))
	}
}

// AuxPlaying reports whether node is producing audio.
func (e *Engine) AuxPlaying(node NodeID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.aux[node]
	return ok && p.Playing()
}

// AuxVolume returns the gain of node.
func (e *Engine) AuxVolume(node NodeID) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p, ok := e.aux[node]; ok {
		return float64(p.Volume())
	}
	return 0
}

// Close stops every source and drops the graph.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	e.file.stop()
	for _, p := range e.aux {
		p.stop()
	}

	var err error
	if e.capture {
		err = e.input.Stop()
		e.capture = false
	}
	e.router.Reset()
	return err
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
