// SPDX-License-Identifier: EPL-2.0

package device

import (
	"io"
	"sync"
	"time"

	"github.com/ik5/radiobox/audio"
)

// Headless is an output without hardware. With a zero period it only
// renders on Pump, otherwise a goroutine pulls one block per period. Sounds
// passed to PlaySound are mixed into the rendered blocks.
type Headless struct {
	rate     int
	channels int
	period   time.Duration

	mu      sync.Mutex
	r       Renderer
	sounds  []*headlessHandle
	scratch []float32
	closed  bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

func NewHeadless(sampleRate, channels int, period time.Duration) *Headless {
	return &Headless{rate: sampleRate, channels: channels, period: period}
}

func (h *Headless) Start(r Renderer) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}
	if h.r != nil {
		return nil
	}
	h.r = r

	if h.period > 0 {
		h.stop = make(chan struct{})
		h.wg.Add(1)
		go h.run(h.stop)
	}
	return nil
}

func (h *Headless) run(stop <-chan struct{}) {
	defer h.wg.Done()

	frames := max(int(h.period*time.Duration(h.rate)/time.Second), 1)
	ticker := time.NewTicker(h.period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			_, _ = h.Pump(frames)
		}
	}
}

func (h *Headless) Stop() error {
	h.mu.Lock()
	stop := h.stop
	h.stop = nil
	h.r = nil
	h.mu.Unlock()

	if stop != nil {
		close(stop)
		h.wg.Wait()
	}
	return nil
}

func (h *Headless) Close() error {
	err := h.Stop()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return err
}

// Pump renders frames frames and returns the mixed block.
func (h *Headless) Pump(frames int) ([]float32, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.r == nil {
		return nil, ErrNotStarted
	}

	out := make([]float32, frames*h.channels)
	h.r.Render(out)

	if cap(h.scratch) < len(out) {
		h.scratch = make([]float32, len(out))
	}
	live := h.sounds[:0]
	for _, s := range h.sounds {
		if s.mixInto(out, h.scratch[:len(out)]) {
			live = append(live, s)
		}
	}
	clear(h.sounds[len(live):])
	h.sounds = live

	return out, nil
}

func (h *Headless) PlaySound(src audio.Source, volume float64) (Handle, error) {
	if src.SampleRate() != h.rate || src.Channels() != h.channels {
		return nil, ErrFormatMismatch
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}

	s := &headlessHandle{src: src, volume: float32(volume), playing: true}
	h.sounds = append(h.sounds, s)
	return s, nil
}

// Sounds returns the number of sounds still playing.
func (h *Headless) Sounds() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, s := range h.sounds {
		if s.IsPlaying() {
			n++
		}
	}
	return n
}

type headlessHandle struct {
	src    audio.Source
	volume float32

	mu      sync.Mutex
	playing bool
}

func (s *headlessHandle) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

func (s *headlessHandle) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playing {
		return nil
	}
	s.playing = false
	return s.src.Close()
}

// mixInto adds the next block of the sound to out and reports whether it
// is still playing afterwards.
func (s *headlessHandle) mixInto(out, scratch []float32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playing {
		return false
	}

	n, err := s.src.ReadSamples(scratch)
	for i := range n {
		out[i] += scratch[i] * s.volume
	}
	if err != nil || n == 0 {
		s.playing = false
		_ = s.src.Close()
		return false
	}
	return true
}

// HeadlessInput is a live input fed from a Source, for tests and machines
// without capture hardware. A nil source captures silence.
type HeadlessInput struct {
	rate     int
	channels int

	mu      sync.Mutex
	src     audio.Source
	started bool
}

func NewHeadlessInput(sampleRate, channels int, src audio.Source) *HeadlessInput {
	return &HeadlessInput{rate: sampleRate, channels: channels, src: src}
}

func (in *HeadlessInput) SampleRate() int { return in.rate }
func (in *HeadlessInput) Channels() int   { return in.channels }
func (in *HeadlessInput) BufSize() int    { return 4096 }

func (in *HeadlessInput) Start() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.started = true
	return nil
}

func (in *HeadlessInput) Stop() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.started = false
	return nil
}

// Started reports whether capture is running.
func (in *HeadlessInput) Started() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.started
}

func (in *HeadlessInput) ReadSamples(dst []float32) (int, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	n := 0
	if in.started && in.src != nil {
		var err error
		n, err = in.src.ReadSamples(dst)
		if err == io.EOF {
			_ = in.src.Close()
			in.src = nil
		}
	}
	clear(dst[n:])
	return len(dst), nil
}

func (in *HeadlessInput) Close() error {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.started = false
	if in.src != nil {
		err := in.src.Close()
		in.src = nil
		return err
	}
	return nil
}
