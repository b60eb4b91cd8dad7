// SPDX-License-Identifier: EPL-2.0

package player

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ik5/radiobox/audio"
	"github.com/ik5/radiobox/catalog"
	"github.com/ik5/radiobox/device"
	"github.com/ik5/radiobox/effects"
	"github.com/ik5/radiobox/engine"
	"github.com/ik5/radiobox/internal/audiotest"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// fakeEngine records what the controller asks of the engine. StopFile and
// ScheduleFile fire completions synchronously, like a render pass would
// right after the call.
type fakeEngine struct {
	mu sync.Mutex

	scheduled  []uint64
	token      uint64
	done       engine.Completion
	playing    bool
	monitoring bool
	monitorErr error
	restoreErr error
	filter     effects.FilterMode
	volume     float64
	aux        map[engine.NodeID]bool
	auxPaused  map[engine.NodeID]bool
	auxVolume  map[engine.NodeID]float64
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		aux:       map[engine.NodeID]bool{},
		auxPaused: map[engine.NodeID]bool{},
		auxVolume: map[engine.NodeID]float64{},
	}
}

func (f *fakeEngine) ScheduleFile(src audio.Source, token uint64, done engine.Completion) error {
	f.mu.Lock()
	if f.monitoring {
		f.mu.Unlock()
		return engine.ErrMonitoring
	}
	prev, prevToken := f.done, f.token
	f.scheduled = append(f.scheduled, token)
	f.token, f.done, f.playing = token, done, false
	f.mu.Unlock()

	if prev != nil {
		prev(prevToken, engine.Stopped)
	}
	return nil
}

func (f *fakeEngine) PlayFile() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = f.done != nil
}

func (f *fakeEngine) PauseFile() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = false
}

func (f *fakeEngine) StopFile() {
	f.mu.Lock()
	done, token := f.done, f.token
	f.done, f.playing = nil, false
	f.mu.Unlock()

	if done != nil {
		done(token, engine.Stopped)
	}
}

// finish simulates the scheduled file reaching its end.
func (f *fakeEngine) finish() {
	f.mu.Lock()
	done, token := f.done, f.token
	f.done, f.playing = nil, false
	f.mu.Unlock()

	if done != nil {
		done(token, engine.Finished)
	}
}

func (f *fakeEngine) StartMonitoring() error {
	f.mu.Lock()
	err := f.monitorErr
	f.mu.Unlock()

	f.StopFile()
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.monitoring = true
	return nil
}

func (f *fakeEngine) StopMonitoring() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.restoreErr != nil {
		return f.restoreErr
	}
	f.monitoring = false
	return nil
}

func (f *fakeEngine) ApplyFilter(mode effects.FilterMode) effects.Params {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter = mode
	return effects.ParamsFor(mode)
}

func (f *fakeEngine) SetVolume(v float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = v
}

func (f *fakeEngine) PlayAux(node engine.NodeID, _ engine.BufferOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.aux[node] = true
	f.auxPaused[node] = false
	return nil
}

func (f *fakeEngine) StopAux(node engine.NodeID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.aux[node] = false
	f.auxPaused[node] = false
}

func (f *fakeEngine) PauseAux(node engine.NodeID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.aux[node] {
		f.aux[node] = false
		f.auxPaused[node] = true
	}
}

func (f *fakeEngine) ResumeAux(node engine.NodeID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.auxPaused[node] {
		f.aux[node] = true
		f.auxPaused[node] = false
	}
}

func (f *fakeEngine) SetAuxVolume(node engine.NodeID, v float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auxVolume[node] = v
}

func (f *fakeEngine) snapshot() (scheduled []uint64, playing, monitoring bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint64(nil), f.scheduled...), f.playing, f.monitoring
}

func (f *fakeEngine) auxState(node engine.NodeID) (bool, float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.aux[node], f.auxVolume[node]
}

// fakeTracks opens silent sources, except for names listed as missing.
type fakeTracks struct {
	mu      sync.Mutex
	opened  []string
	missing map[string]bool
}

func (f *fakeTracks) Open(name string) (audio.Source, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.missing[name] {
		return nil, fmt.Errorf("%w: %s", catalog.ErrNotFound, name)
	}
	f.opened = append(f.opened, name)
	return audiotest.NewSilentSource(8000, 2, 100), nil
}

func (f *fakeTracks) Opened() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.opened...)
}

// fakeClock is advanced by hand.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeTimers captures delayed callbacks until fired.
type fakeTimers struct {
	mu      sync.Mutex
	pending []func()
}

func (f *fakeTimers) After(_ time.Duration, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, fn)
}

func (f *fakeTimers) Fire(i int) {
	f.mu.Lock()
	fn := f.pending[i]
	f.mu.Unlock()
	fn()
}

// fakeSounds opens constant sources for any name.
type fakeSounds struct {
	rate     int
	channels int
	frames   int
}

func (f fakeSounds) OpenSound(string) (audio.Source, error) {
	return audiotest.NewConstantSource(f.rate, f.channels, f.frames, 0.5), nil
}

type fakeHandle struct {
	mu      sync.Mutex
	playing bool
	stopped bool
	volume  float64
	src     audio.Source
}

func (h *fakeHandle) IsPlaying() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playing
}

func (h *fakeHandle) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.playing, h.stopped = false, true
	return nil
}

func (h *fakeHandle) end() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.playing = false
}

type fakeSoundOutput struct {
	mu      sync.Mutex
	handles []*fakeHandle
}

func (f *fakeSoundOutput) PlaySound(src audio.Source, volume float64) (device.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	h := &fakeHandle{playing: true, volume: volume, src: src}
	f.handles = append(f.handles, h)
	return h, nil
}

func (f *fakeSoundOutput) all() []*fakeHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*fakeHandle(nil), f.handles...)
}
