// SPDX-License-Identifier: EPL-2.0

package device

import (
	"errors"
	"testing"

	"github.com/ik5/radiobox/internal/audiotest"
)

type constRenderer struct{ v float32 }

func (c constRenderer) Render(buf []float32) {
	for i := range buf {
		buf[i] = c.v
	}
}

func TestHeadless_PumpRendersAndMixesSounds(t *testing.T) {
	t.Parallel()

	h := NewHeadless(8000, 2, 0)
	if _, err := h.Pump(10); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("Pump() before Start error = %v, want ErrNotStarted", err)
	}

	if err := h.Start(constRenderer{v: 0.25}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	src := audiotest.NewConstantSource(8000, 2, 15, 0.5)
	handle, err := h.PlaySound(src, 0.5)
	if err != nil {
		t.Fatalf("PlaySound() error = %v", err)
	}

	out, err := h.Pump(10)
	if err != nil {
		t.Fatalf("Pump() error = %v", err)
	}
	if len(out) != 20 {
		t.Fatalf("len(out) = %d, want 20", len(out))
	}
	if out[0] != 0.5 {
		t.Errorf("out[0] = %v, want 0.25 + 0.5*0.5", out[0])
	}
	if !handle.IsPlaying() {
		t.Errorf("sound stopped early")
	}

	out, _ = h.Pump(10)
	if out[9] != 0.5 || out[10] != 0.25 {
		t.Errorf("tail mix = %v, %v; want 0.5, 0.25", out[9], out[10])
	}
	if handle.IsPlaying() || h.Sounds() != 0 {
		t.Errorf("sound should have finished")
	}
	if !src.Closed() {
		t.Errorf("finished sound source not closed")
	}
}

func TestHeadless_PlaySoundFormatMismatch(t *testing.T) {
	t.Parallel()

	h := NewHeadless(44100, 2, 0)
	if _, err := h.PlaySound(audiotest.NewSilentSource(22050, 2, 10), 1); !errors.Is(err, ErrFormatMismatch) {
		t.Errorf("PlaySound() error = %v, want ErrFormatMismatch", err)
	}
}

func TestHeadless_StopHandle(t *testing.T) {
	t.Parallel()

	h := NewHeadless(8000, 1, 0)
	_ = h.Start(constRenderer{})

	src := audiotest.NewConstantSource(8000, 1, 1000, 1)
	handle, _ := h.PlaySound(src, 1)
	if err := handle.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	out, _ := h.Pump(4)
	if out[0] != 0 {
		t.Errorf("stopped sound still mixed: %v", out[0])
	}
	if !src.Closed() {
		t.Errorf("stopped sound source not closed")
	}
}

func TestHeadless_Closed(t *testing.T) {
	t.Parallel()

	h := NewHeadless(8000, 1, 0)
	if err := h.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := h.Start(constRenderer{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Start() after Close error = %v", err)
	}
}

func TestHeadlessInput(t *testing.T) {
	t.Parallel()

	src := audiotest.NewConstantSource(8000, 1, 3, 0.7)
	in := NewHeadlessInput(8000, 1, src)

	buf := make([]float32, 5)
	n, err := in.ReadSamples(buf)
	if err != nil || n != 5 {
		t.Fatalf("ReadSamples() = %d, %v", n, err)
	}
	if buf[0] != 0 {
		t.Errorf("input captured before Start")
	}

	_ = in.Start()
	n, _ = in.ReadSamples(buf)
	if n != 5 || buf[0] != 0.7 || buf[2] != 0.7 || buf[3] != 0 {
		t.Errorf("ReadSamples() = %v, want three samples then silence", buf)
	}

	_ = in.Stop()
	if in.Started() {
		t.Errorf("Started() after Stop")
	}
}

func TestNopSession(t *testing.T) {
	t.Parallel()

	s := NewNopSession(nil)
	if err := s.SetCategory(CategoryPlayAndRecord); err != nil {
		t.Fatalf("SetCategory() error = %v", err)
	}
	if err := s.SetActive(true); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}
	if s.Category() != CategoryPlayAndRecord || !s.Active() {
		t.Errorf("session = %v/%v", s.Category(), s.Active())
	}
}
