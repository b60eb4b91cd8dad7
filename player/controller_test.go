// SPDX-License-Identifier: EPL-2.0

package player

import (
	"errors"
	"testing"
	"time"

	"github.com/ik5/radiobox/catalog"
	"github.com/ik5/radiobox/effects"
	"github.com/ik5/radiobox/engine"
)

type harness struct {
	c      *Controller
	eng    *fakeEngine
	tracks *fakeTracks
	clock  *fakeClock
	timers *fakeTimers
	cat    *catalog.Catalog
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		eng:    newFakeEngine(),
		tracks: &fakeTracks{missing: map[string]bool{}},
		clock:  newFakeClock(),
		timers: &fakeTimers{},
		cat:    catalog.Default(),
	}

	opts := DefaultOptions()
	opts.Clock = h.clock.Now
	opts.After = h.timers.After
	opts.Logger = quietLogger()

	c, err := New(h.eng, h.tracks, h.cat, nil, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	h.c = c
	return h
}

// settle waits for the queue to drain, including completions queued by it.
func (h *harness) settle() {
	h.c.Sync()
	h.c.Sync()
}

// change lets the debounce window pass before the next track change.
func (h *harness) change() {
	h.clock.Advance(DefaultDebounce + time.Millisecond)
}

func TestController_Defaults(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.settle()

	s := h.c.State()
	if s.PlayState != Stopped || s.IsPlaying || s.IsMonitoring {
		t.Errorf("initial state = %+v", s)
	}
	if s.Filter != effects.HamRadio || s.Volume != 0.5 {
		t.Errorf("filter/volume = %v/%v, want Ham Radio/0.5", s.Filter, s.Volume)
	}
	if h.eng.filter != effects.HamRadio || h.eng.volume != 0.5 {
		t.Errorf("engine not initialized: %v/%v", h.eng.filter, h.eng.volume)
	}
	if s.Track.Filename == "" {
		t.Errorf("initial track not selected")
	}
}

func TestController_SelectTrackDebounce(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	if !h.c.SelectTrack(3, false) {
		t.Fatalf("first SelectTrack() debounced")
	}
	h.clock.Advance(100 * time.Millisecond)
	if h.c.SelectTrack(5, true) {
		t.Errorf("SelectTrack() within 150ms accepted")
	}
	h.settle()

	s := h.c.State()
	if s.SelectedIndex != 3 || s.IsPlaying {
		t.Errorf("state = index %d playing %v, want index 3 stopped", s.SelectedIndex, s.IsPlaying)
	}
	if scheduled, _, _ := h.eng.snapshot(); len(scheduled) != 0 {
		t.Errorf("debounced call scheduled %v", scheduled)
	}

	h.clock.Advance(60 * time.Millisecond)
	if !h.c.SelectTrack(5, true) {
		t.Fatalf("SelectTrack() after the window debounced")
	}
	h.settle()
	if s := h.c.State(); s.SelectedIndex != 5 || !s.IsPlaying {
		t.Errorf("state = index %d playing %v, want index 5 playing", s.SelectedIndex, s.IsPlaying)
	}
}

func TestController_DebounceCoversNextAndPrevious(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	if !h.c.Next() {
		t.Fatalf("Next() debounced")
	}
	if h.c.Previous() {
		t.Errorf("Previous() right after Next() accepted")
	}
	if h.c.SelectTrack(7, false) {
		t.Errorf("SelectTrack() right after Next() accepted")
	}
	h.settle()

	if s := h.c.State(); s.SelectedIndex != 1 {
		t.Errorf("SelectedIndex = %d, want 1", s.SelectedIndex)
	}
}

func TestController_StopNeverAdvances(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.c.Play()
	h.settle()

	scheduled, playing, _ := h.eng.snapshot()
	if len(scheduled) != 1 || !playing {
		t.Fatalf("Play() scheduled %v, playing %v", scheduled, playing)
	}
	token := scheduled[0]

	h.c.Stop()
	// A Finished completion racing the stop must not advance either.
	h.c.onComplete(token, engine.Finished)
	h.settle()

	scheduled, playing, _ = h.eng.snapshot()
	if len(scheduled) != 1 || playing {
		t.Errorf("after Stop: scheduled %v, playing %v", scheduled, playing)
	}
	s := h.c.State()
	if s.PlayState != Stopped || s.SelectedIndex != 0 {
		t.Errorf("state = %v index %d, want stopped at 0", s.PlayState, s.SelectedIndex)
	}
}

func TestController_AutoAdvanceWraps(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	n := h.cat.Len()

	h.c.SelectTrack(n-2, true)
	h.settle()

	h.eng.finish()
	h.settle()
	if s := h.c.State(); s.SelectedIndex != n-1 || s.PlayState != Playing {
		t.Fatalf("after first finish: index %d state %v", s.SelectedIndex, s.PlayState)
	}

	h.eng.finish()
	h.settle()
	if s := h.c.State(); s.SelectedIndex != 0 || s.PlayState != Playing {
		t.Errorf("after second finish: index %d state %v, want 0 playing", s.SelectedIndex, s.PlayState)
	}

	first, _ := h.cat.At(n - 2)
	last, _ := h.cat.At(n - 1)
	wrapped, _ := h.cat.At(0)
	want := []string{first.Filename, last.Filename, wrapped.Filename}
	got := h.tracks.Opened()
	if len(got) != len(want) {
		t.Fatalf("opened %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("opened[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestController_NextPreviousWrap(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	n := h.cat.Len()

	h.c.SelectTrack(n-1, false)
	h.change()
	h.c.Next()
	h.settle()
	if s := h.c.State(); s.SelectedIndex != 0 {
		t.Errorf("Next() from %d = %d, want 0", n-1, s.SelectedIndex)
	}

	h.change()
	h.c.Previous()
	h.settle()
	if s := h.c.State(); s.SelectedIndex != n-1 {
		t.Errorf("Previous() from 0 = %d, want %d", s.SelectedIndex, n-1)
	}

	if scheduled, _, _ := h.eng.snapshot(); len(scheduled) != 0 {
		t.Errorf("Next/Previous while stopped scheduled %v", scheduled)
	}
}

func TestController_NextKeepsPlaying(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.c.Play()
	h.settle()

	h.change()
	h.c.Next()
	h.settle()

	scheduled, playing, _ := h.eng.snapshot()
	if len(scheduled) != 2 || !playing {
		t.Fatalf("scheduled %v playing %v, want two schedules and playing", scheduled, playing)
	}

	// The completion of the superseded track carries an old token.
	h.c.onComplete(scheduled[0], engine.Finished)
	h.settle()
	if s := h.c.State(); s.SelectedIndex != 1 || s.PlayState != Playing {
		t.Errorf("stale completion moved state to index %d %v", s.SelectedIndex, s.PlayState)
	}

	h.c.Pause()
	h.change()
	h.c.Next()
	h.settle()
	if s := h.c.State(); s.SelectedIndex != 2 || s.PlayState != Stopped {
		t.Errorf("Next() while paused: index %d %v, want 2 stopped", s.SelectedIndex, s.PlayState)
	}
}

func TestController_PauseResume(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.c.Pause()
	h.settle()
	if s := h.c.State(); s.PlayState != Stopped {
		t.Errorf("Pause() while stopped changed state to %v", s.PlayState)
	}

	h.c.Play()
	h.c.Pause()
	h.settle()
	if s := h.c.State(); !s.IsPaused || s.IsPlaying {
		t.Errorf("after Pause: %+v", s)
	}
	if _, playing, _ := h.eng.snapshot(); playing {
		t.Errorf("engine still playing while paused")
	}

	h.c.Resume()
	h.settle()
	if s := h.c.State(); s.IsPaused || !s.IsPlaying {
		t.Errorf("after Resume: %+v", s)
	}

	h.c.TogglePlay()
	h.settle()
	if s := h.c.State(); s.PlayState != Paused {
		t.Errorf("TogglePlay() from playing = %v", s.PlayState)
	}
	h.c.Play()
	h.settle()
	if scheduled, playing, _ := h.eng.snapshot(); len(scheduled) != 1 || !playing {
		t.Errorf("Play() while paused should resume, scheduled %v", scheduled)
	}
}

func TestController_MissingTrackKeepsState(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	tr, _ := h.cat.At(0)
	h.tracks.missing[tr.Filename] = true

	h.c.Play()
	h.settle()

	if s := h.c.State(); s.PlayState != Stopped || s.IsPlaying {
		t.Errorf("state after missing track = %+v", s)
	}
	if scheduled, _, _ := h.eng.snapshot(); len(scheduled) != 0 {
		t.Errorf("missing track scheduled %v", scheduled)
	}
}

func TestController_SelectTrackClamps(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.c.SelectTrack(99, false)
	h.settle()
	if s := h.c.State(); s.SelectedIndex != h.cat.Len()-1 {
		t.Errorf("SelectTrack(99) index = %d", s.SelectedIndex)
	}

	h.change()
	h.c.SelectTrack(-3, false)
	h.settle()
	if s := h.c.State(); s.SelectedIndex != 0 {
		t.Errorf("SelectTrack(-3) index = %d", s.SelectedIndex)
	}
}

func TestController_VolumeClamps(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.c.SetVolume(1.5)
	h.settle()
	if s := h.c.State(); s.Volume != 1 || h.eng.volume != 1 {
		t.Errorf("SetVolume(1.5) = %v / engine %v", s.Volume, h.eng.volume)
	}

	h.c.SetVolume(-0.2)
	h.settle()
	if s := h.c.State(); s.Volume != 0 {
		t.Errorf("SetVolume(-0.2) = %v", s.Volume)
	}
}

func TestController_Monitoring(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.c.Play()
	h.c.StartMonitoring()
	h.settle()

	s := h.c.State()
	if !s.IsMonitoring || s.IsPlaying || s.PlayState != Stopped {
		t.Fatalf("after StartMonitoring: %+v", s)
	}
	if on, vol := h.eng.auxState(engine.NodeNoise); !on || vol != monitorNoiseHam {
		t.Errorf("noise = %v at %v, want on at %v", on, vol, monitorNoiseHam)
	}
	if on, _ := h.eng.auxState(engine.NodeHeterodyne); !on {
		t.Errorf("heterodyne off under Ham Radio")
	}

	h.c.SetFilter(effects.AMRadio)
	h.settle()
	if on, _ := h.eng.auxState(engine.NodeHeterodyne); on {
		t.Errorf("heterodyne still on under AM Radio")
	}
	if _, vol := h.eng.auxState(engine.NodeNoise); vol != monitorNoise {
		t.Errorf("noise volume = %v, want %v", vol, monitorNoise)
	}

	h.c.ToggleMonitoring()
	h.settle()
	if s := h.c.State(); s.IsMonitoring {
		t.Errorf("ToggleMonitoring() did not stop monitoring")
	}
	if _, _, monitoring := h.eng.snapshot(); monitoring {
		t.Errorf("engine still monitoring")
	}
	if on, _ := h.eng.auxState(engine.NodeNoise); on {
		t.Errorf("noise still on after monitoring")
	}
}

func TestController_PlayEndsMonitoring(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.c.StartMonitoring()
	h.c.Play()
	h.settle()

	s := h.c.State()
	if s.IsMonitoring || !s.IsPlaying {
		t.Errorf("Play() while monitoring: %+v", s)
	}
}

func TestController_PlayKeepsMonitoringWhenRestoreFails(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.c.StartMonitoring()
	h.settle()

	h.eng.mu.Lock()
	h.eng.restoreErr = errors.New("session stuck in record")
	h.eng.mu.Unlock()

	h.c.Play()
	h.settle()

	s := h.c.State()
	if !s.IsMonitoring || s.IsPlaying || s.PlayState != Stopped {
		t.Errorf("Play() after failed restore: %+v, want monitoring and stopped", s)
	}
	scheduled, playing, monitoring := h.eng.snapshot()
	if len(scheduled) != 0 || playing || !monitoring {
		t.Errorf("engine scheduled %v, playing %v, monitoring %v", scheduled, playing, monitoring)
	}
	if opened := h.tracks.Opened(); len(opened) != 0 {
		t.Errorf("tracks opened %v, want none", opened)
	}

	h.eng.mu.Lock()
	h.eng.restoreErr = nil
	h.eng.mu.Unlock()

	h.c.Play()
	h.settle()
	if s := h.c.State(); s.IsMonitoring || !s.IsPlaying {
		t.Errorf("Play() after restore recovered: %+v", s)
	}
}

func TestController_PauseHoldsNoise(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.c.Play()
	h.c.SquelchOpen()
	h.settle()
	if on, _ := h.eng.auxState(engine.NodeNoise); !on {
		t.Fatal("squelch noise not playing")
	}

	h.c.Pause()
	h.settle()
	if on, _ := h.eng.auxState(engine.NodeNoise); on {
		t.Error("noise still playing while paused")
	}

	h.c.Resume()
	h.settle()
	if on, _ := h.eng.auxState(engine.NodeNoise); !on {
		t.Error("noise not resumed with playback")
	}
}

func TestNew_InvalidFilterFallsBack(t *testing.T) {
	t.Parallel()

	eng := newFakeEngine()
	opts := DefaultOptions()
	opts.Filter = effects.FilterMode(42)
	opts.Logger = quietLogger()

	c, err := New(eng, &fakeTracks{missing: map[string]bool{}}, catalog.Default(), nil, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()
	c.Sync()

	if got := c.State().Filter; got != DefaultFilter {
		t.Errorf("Filter = %v, want %v", got, DefaultFilter)
	}
	eng.mu.Lock()
	applied := eng.filter
	eng.mu.Unlock()
	if applied != DefaultFilter {
		t.Errorf("engine filter = %v, want %v", applied, DefaultFilter)
	}
}

func TestController_MonitoringFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.eng.monitorErr = errors.New("no microphone")

	h.c.StartMonitoring()
	h.settle()

	if s := h.c.State(); s.IsMonitoring {
		t.Errorf("IsMonitoring after failure")
	}
	if on, _ := h.eng.auxState(engine.NodeNoise); on {
		t.Errorf("noise started after failed monitoring")
	}
}

func TestController_Squelch(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	h.c.SquelchOpen()
	h.settle()
	if on, vol := h.eng.auxState(engine.NodeNoise); !on || vol != squelchOpenLevel {
		t.Fatalf("squelch open noise = %v at %v", on, vol)
	}

	h.timers.Fire(0)
	h.settle()
	if _, vol := h.eng.auxState(engine.NodeNoise); vol != squelchOpenTail {
		t.Errorf("noise after open delay = %v, want %v", vol, squelchOpenTail)
	}

	h.c.SquelchOpen()
	h.c.SquelchClose()
	h.settle()

	// The superseded open step must not lower the close burst.
	h.timers.Fire(1)
	h.settle()
	if _, vol := h.eng.auxState(engine.NodeNoise); vol != squelchCloseLevel {
		t.Errorf("noise = %v, want %v after stale step", vol, squelchCloseLevel)
	}

	h.timers.Fire(2)
	h.settle()
	if on, _ := h.eng.auxState(engine.NodeNoise); on {
		t.Errorf("noise still on after squelch close")
	}
}

func TestController_RogerBeep(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.c.PlayRogerBeep()
	h.settle()
	if on, _ := h.eng.auxState(engine.NodeBeep); !on {
		t.Errorf("beep not played")
	}
}

func TestController_SubscribeAndClose(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ch := h.c.Subscribe()

	h.c.SetVolume(0.25)
	h.c.SetFilter(effects.FMVintage)
	h.settle()

	var last State
	for {
		select {
		case s := <-ch:
			last = s
			continue
		default:
		}
		break
	}
	if last.Volume != 0.25 || last.Filter != effects.FMVintage {
		t.Errorf("latest published = %+v", last)
	}

	h.c.Play()
	if err := h.c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	for range ch {
	}
	if s := h.c.State(); s.IsPlaying {
		t.Errorf("still playing after Close")
	}

	// Operations after Close are dropped without blocking.
	h.c.Play()
	h.c.Sync()
	if _, ok := <-h.c.Subscribe(); ok {
		t.Errorf("Subscribe() after Close returned an open channel")
	}
}

func TestNew_EmptyCatalog(t *testing.T) {
	t.Parallel()

	if _, err := New(newFakeEngine(), &fakeTracks{}, catalog.New(nil), nil, DefaultOptions()); !errors.Is(err, ErrNoCatalog) {
		t.Errorf("New() error = %v, want ErrNoCatalog", err)
	}
}
