// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func TestBeep_FrameCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		duration float64
		rate     int
	}{
		{0.2, 44100},
		{0.2, 48000},
		{0.013, 8000},
		{1.0 / 3.0, 22050},
		{0.00005, 44100},
	}

	for _, tt := range tests {
		p := DefaultBeep()
		p.Duration = tt.duration

		buf, err := Beep(p, tt.rate, 1)
		if err != nil {
			t.Fatalf("Beep(%v, %d) error = %v", tt.duration, tt.rate, err)
		}

		want := int(math.Floor(tt.duration * float64(tt.rate)))
		if buf.Frames() != want {
			t.Errorf("Beep(%v, %d) frames = %d, want %d", tt.duration, tt.rate, buf.Frames(), want)
		}
	}
}

func TestBeep_EnvelopeBound(t *testing.T) {
	t.Parallel()

	p := DefaultBeep()
	buf, err := Beep(p, 44100, 2)
	if err != nil {
		t.Fatalf("Beep() error = %v", err)
	}

	for i := range buf.Frames() {
		tm := float64(i) / 44100
		bound := math.Exp(-p.Decay*tm)*p.Amplitude + 1e-6
		for _, v := range buf.Frame(i) {
			if math.Abs(float64(v)) > bound {
				t.Fatalf("frame %d: |%v| exceeds envelope %v", i, v, bound)
			}
		}
	}
}

func TestBeep_ChannelsIdentical(t *testing.T) {
	t.Parallel()

	buf, err := Beep(DefaultBeep(), 8000, 2)
	if err != nil {
		t.Fatalf("Beep() error = %v", err)
	}

	for i := range buf.Frames() {
		f := buf.Frame(i)
		if f[0] != f[1] {
			t.Fatalf("frame %d: left %v != right %v", i, f[0], f[1])
		}
	}
}

func TestGenerators_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		duration float64
		rate     int
		channels int
		want     error
	}{
		{"zero duration", 0, 44100, 1, ErrInvalidDuration},
		{"negative duration", -1, 44100, 1, ErrInvalidDuration},
		{"NaN duration", math.NaN(), 44100, 1, ErrInvalidDuration},
		{"zero rate", 1, 0, 1, ErrInvalidSampleRate},
		{"negative rate", 1, -8000, 1, ErrInvalidSampleRate},
		{"zero channels", 1, 8000, 0, ErrInvalidChannels},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Noise(tt.duration, tt.rate, tt.channels, nil); !errors.Is(err, tt.want) {
				t.Errorf("Noise() error = %v, want %v", err, tt.want)
			}

			bp := DefaultBeep()
			bp.Duration = tt.duration
			if _, err := Beep(bp, tt.rate, tt.channels); !errors.Is(err, tt.want) {
				t.Errorf("Beep() error = %v, want %v", err, tt.want)
			}

			hp := DefaultHeterodyne()
			hp.Duration = tt.duration
			if _, err := Heterodyne(hp, tt.rate, tt.channels); !errors.Is(err, tt.want) {
				t.Errorf("Heterodyne() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGenerators_SubFrameDurationIsEmpty(t *testing.T) {
	t.Parallel()

	const (
		duration = 0.00001
		rate     = 8000
		channels = 2
	)

	bp := DefaultBeep()
	bp.Duration = duration
	hp := DefaultHeterodyne()
	hp.Duration = duration

	gens := map[string]func() (*Buffer, error){
		"noise":      func() (*Buffer, error) { return Noise(duration, rate, channels, nil) },
		"beep":       func() (*Buffer, error) { return Beep(bp, rate, channels) },
		"heterodyne": func() (*Buffer, error) { return Heterodyne(hp, rate, channels) },
	}

	for name, gen := range gens {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			buf, err := gen()
			if err != nil {
				t.Fatalf("error = %v, want nil", err)
			}
			if buf == nil {
				t.Fatal("buffer is nil")
			}
			if buf.Frames() != 0 || len(buf.Samples) != 0 {
				t.Errorf("frames = %d, samples = %d, want empty", buf.Frames(), len(buf.Samples))
			}
			if buf.SampleRate != rate || buf.Channels != channels {
				t.Errorf("format = %d Hz x %d, want %d Hz x %d", buf.SampleRate, buf.Channels, rate, channels)
			}
		})
	}
}

func TestNoise_RangeAndDeterminism(t *testing.T) {
	t.Parallel()

	a, err := Noise(0.5, 8000, 2, rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatalf("Noise() error = %v", err)
	}
	b, err := Noise(0.5, 8000, 2, rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatalf("Noise() error = %v", err)
	}

	if a.Frames() != 4000 {
		t.Fatalf("Frames() = %d, want 4000", a.Frames())
	}

	for i, v := range a.Samples {
		if v != b.Samples[i] {
			t.Fatalf("sample %d differs with the same seed", i)
		}
		if math.Abs(float64(v)) > 0.5+1e-6 {
			t.Fatalf("sample %d = %v, outside ±0.5", i, v)
		}
	}
}

func TestNoise_ChannelsIndependent(t *testing.T) {
	t.Parallel()

	buf, err := Noise(0.1, 8000, 2, rand.New(rand.NewPCG(7, 7)))
	if err != nil {
		t.Fatalf("Noise() error = %v", err)
	}

	same := 0
	for i := range buf.Frames() {
		f := buf.Frame(i)
		if f[0] == f[1] {
			same++
		}
	}
	if same > buf.Frames()/10 {
		t.Errorf("%d of %d frames identical across channels", same, buf.Frames())
	}
}

func TestNoise_RumbleComponent(t *testing.T) {
	t.Parallel()

	// Averaging many frames cancels the white component and leaves the rumble.
	buf, err := Noise(2, 8000, 1, rand.New(rand.NewPCG(3, 4)))
	if err != nil {
		t.Fatalf("Noise() error = %v", err)
	}

	var got, want float64
	for i := range 2000 {
		idx := 150 + i
		got += float64(buf.Samples[idx])
		want += math.Sin(float64(idx)*noiseRumbleStep) * noiseRumbleGain
	}
	got /= 2000
	want /= 2000

	if math.Abs(got-want) > 0.02 {
		t.Errorf("mean = %v, want about %v", got, want)
	}
}

func TestHeterodyne_Continuous(t *testing.T) {
	t.Parallel()

	p := DefaultHeterodyne()
	buf, err := Heterodyne(p, 44100, 1)
	if err != nil {
		t.Fatalf("Heterodyne() error = %v", err)
	}

	if buf.Frames() != 5*44100 {
		t.Fatalf("Frames() = %d, want %d", buf.Frames(), 5*44100)
	}

	// Highest instantaneous frequency is base+drift, so the per-sample step is bounded.
	maxStep := 2*math.Pi*(p.BaseFreq+p.DriftFreq)/44100*p.Amplitude + 1e-6
	for i := 1; i < len(buf.Samples); i++ {
		d := math.Abs(float64(buf.Samples[i] - buf.Samples[i-1]))
		if d > maxStep {
			t.Fatalf("sample %d jumps by %v, max %v", i, d, maxStep)
		}
	}

	if peak := buf.Peak(); peak > float32(p.Amplitude)+1e-6 || peak < float32(p.Amplitude)*0.99 {
		t.Errorf("Peak() = %v, want about %v", peak, p.Amplitude)
	}
}

func TestBuffer_Duration(t *testing.T) {
	t.Parallel()

	buf, err := Beep(DefaultBeep(), 44100, 2)
	if err != nil {
		t.Fatalf("Beep() error = %v", err)
	}

	if got := buf.Duration().Milliseconds(); got != 199 && got != 200 {
		t.Errorf("Duration() = %dms, want 200ms", got)
	}

	var nilBuf *Buffer
	if nilBuf.Frames() != 0 || nilBuf.Duration() != 0 {
		t.Errorf("nil buffer should report zero length")
	}
}

func TestNewBank(t *testing.T) {
	t.Parallel()

	bank, err := NewBank(22050, 2, rand.New(rand.NewPCG(1, 1)))
	if err != nil {
		t.Fatalf("NewBank() error = %v", err)
	}

	if bank.Noise.Frames() != 5*22050 {
		t.Errorf("noise frames = %d, want %d", bank.Noise.Frames(), 5*22050)
	}
	if bank.Beep.Frames() != FrameCount(0.2, 22050) {
		t.Errorf("beep frames = %d, want %d", bank.Beep.Frames(), FrameCount(0.2, 22050))
	}
	if bank.Heterodyne.Channels != 2 {
		t.Errorf("heterodyne channels = %d, want 2", bank.Heterodyne.Channels)
	}
	if len(bank.Named()) != 3 {
		t.Errorf("Named() has %d entries, want 3", len(bank.Named()))
	}

	if _, err := NewBank(0, 2, nil); !errors.Is(err, ErrInvalidSampleRate) {
		t.Errorf("NewBank(0) error = %v, want ErrInvalidSampleRate", err)
	}
}

func BenchmarkNoise(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 2))
	for b.Loop() {
		if _, err := Noise(DefaultNoiseDuration, 44100, 2, rng); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkHeterodyne(b *testing.B) {
	for b.Loop() {
		if _, err := Heterodyne(DefaultHeterodyne(), 44100, 2); err != nil {
			b.Fatal(err)
		}
	}
}
