// SPDX-License-Identifier: EPL-2.0

package oto

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	otov3 "github.com/ebitengine/oto/v3"
	"github.com/sirupsen/logrus"

	"github.com/ik5/radiobox/audio"
	"github.com/ik5/radiobox/device"
)

const (
	bytesPerSample = 4
	reapInterval   = 10 * time.Millisecond
)

// Output owns the single oto context of the process. It serves the main
// render stream and every ephemeral sound player.
type Output struct {
	ctx      *otov3.Context
	rate     int
	channels int
	log      logrus.FieldLogger

	mu     sync.Mutex
	main   *otov3.Player
	closed bool
}

// New opens the default output device. bufferSize of zero lets oto pick.
func New(sampleRate, channels int, bufferSize time.Duration, log logrus.FieldLogger) (*Output, error) {
	if sampleRate <= 0 {
		return nil, device.ErrInvalidSampleRate
	}
	if channels <= 0 {
		return nil, device.ErrInvalidChannels
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	ctx, ready, err := otov3.NewContext(&otov3.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       otov3.FormatFloat32LE,
		BufferSize:   bufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("open oto context: %w", err)
	}
	<-ready

	return &Output{
		ctx:      ctx,
		rate:     sampleRate,
		channels: channels,
		log:      log.WithField("component", "oto"),
	}, nil
}

func (o *Output) Start(r device.Renderer) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return device.ErrClosed
	}
	if o.main != nil {
		return nil
	}

	o.main = o.ctx.NewPlayer(&renderReader{r: r})
	o.main.Play()
	o.log.WithFields(logrus.Fields{
		"rate":     o.rate,
		"channels": o.channels,
	}).Debug("output started")
	return nil
}

func (o *Output) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.main == nil {
		return nil
	}
	err := o.main.Close()
	o.main = nil
	return err
}

func (o *Output) Close() error {
	err := o.Stop()

	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	return err
}

func (o *Output) PlaySound(src audio.Source, volume float64) (device.Handle, error) {
	if src.SampleRate() != o.rate || src.Channels() != o.channels {
		return nil, fmt.Errorf("%w: %d Hz/%d ch, want %d Hz/%d ch",
			device.ErrFormatMismatch, src.SampleRate(), src.Channels(), o.rate, o.channels)
	}

	o.mu.Lock()
	closed := o.closed
	o.mu.Unlock()
	if closed {
		return nil, device.ErrClosed
	}

	p := o.ctx.NewPlayer(&sourceReader{src: src})
	p.SetVolume(volume)
	p.Play()

	h := &handle{player: p, src: src}
	go h.reap()
	return h, nil
}

type handle struct {
	player *otov3.Player
	src    audio.Source
	once   sync.Once
}

func (h *handle) IsPlaying() bool { return h.player.IsPlaying() }

func (h *handle) Stop() error {
	h.player.Pause()
	return h.release()
}

// reap releases the player once it has drained.
func (h *handle) reap() {
	for h.player.IsPlaying() {
		time.Sleep(reapInterval)
	}
	_ = h.release()
}

func (h *handle) release() error {
	var err error
	h.once.Do(func() {
		err = h.player.Close()
		if cerr := h.src.Close(); err == nil {
			err = cerr
		}
	})
	return err
}

// renderReader adapts a device.Renderer to the byte stream oto consumes.
type renderReader struct {
	r   device.Renderer
	buf []float32
}

func (rr *renderReader) Read(p []byte) (int, error) {
	n := len(p) / bytesPerSample
	if cap(rr.buf) < n {
		rr.buf = make([]float32, n)
	}
	samples := rr.buf[:n]
	rr.r.Render(samples)
	putFloats(p, samples)
	return n * bytesPerSample, nil
}

// sourceReader adapts an audio.Source to oto, ending with io.EOF.
type sourceReader struct {
	src audio.Source
	buf []float32
	eof bool
}

func (sr *sourceReader) Read(p []byte) (int, error) {
	if sr.eof {
		return 0, io.EOF
	}

	n := len(p) / bytesPerSample
	if cap(sr.buf) < n {
		sr.buf = make([]float32, n)
	}
	samples := sr.buf[:n]

	got, err := sr.src.ReadSamples(samples)
	putFloats(p, samples[:got])
	if err == io.EOF {
		sr.eof = true
		if got == 0 {
			return 0, io.EOF
		}
		return got * bytesPerSample, nil
	}
	if err != nil {
		return got * bytesPerSample, err
	}
	return got * bytesPerSample, nil
}

func putFloats(p []byte, samples []float32) {
	for i, v := range samples {
		binary.LittleEndian.PutUint32(p[i*bytesPerSample:], math.Float32bits(v))
	}
}
