// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ik5/radiobox/audio"
	"github.com/ik5/radiobox/synth"
)

// Reason tells a completion callback why a scheduled file ended.
type Reason int

const (
	// Finished means the file played to its end.
	Finished Reason = iota
	// Stopped means the file was stopped or replaced before its end.
	Stopped
)

func (r Reason) String() string {
	if r == Finished {
		return "finished"
	}
	return "stopped"
}

// Completion is called once per scheduled file, on a goroutine of its own.
type Completion func(token uint64, reason Reason)

// FilePlayer is the primary source node: it streams one decoded file.
type FilePlayer struct {
	log logrus.FieldLogger

	src     audio.Source
	token   uint64
	done    Completion
	playing bool
}

func newFilePlayer(log logrus.FieldLogger) *FilePlayer {
	return &FilePlayer{log: log}
}

// schedule replaces any pending file. The replaced file completes with Stopped.
func (p *FilePlayer) schedule(src audio.Source, token uint64, done Completion) {
	p.finish(Stopped)
	p.src = src
	p.token = token
	p.done = done
	p.playing = false
}

// Scheduled reports whether a file is loaded and the token it carries.
func (p *FilePlayer) Scheduled() (token uint64, ok bool) {
	return p.token, p.src != nil
}

func (p *FilePlayer) Playing() bool { return p.playing && p.src != nil }

func (p *FilePlayer) play()  { p.playing = p.src != nil }
func (p *FilePlayer) pause() { p.playing = false }

func (p *FilePlayer) stop() { p.finish(Stopped) }

func (p *FilePlayer) finish(reason Reason) {
	if p.src == nil {
		return
	}

	if err := p.src.Close(); err != nil {
		p.log.WithFields(logrus.Fields{
			"component": "player",
			"token":     p.token,
		}).WithError(err).Warn("close source failed")
	}

	done, token := p.done, p.token
	p.src, p.done, p.playing = nil, nil, false
	if done != nil {
		go done(token, reason)
	}
}

// read fills out with the next block, or silence when nothing plays.
func (p *FilePlayer) read(out []float32) {
	if !p.Playing() {
		clear(out)
		return
	}

	total := 0
	for total < len(out) {
		n, err := p.src.ReadSamples(out[total:])
		total += n
		if err == io.EOF {
			clear(out[total:])
			p.finish(Finished)
			return
		}
		if err != nil {
			p.log.WithFields(logrus.Fields{
				"component": "player",
				"token":     p.token,
			}).WithError(err).Error("decode failed, ending track")
			clear(out[total:])
			p.finish(Finished)
			return
		}
		if n == 0 {
			clear(out[total:])
			return
		}
	}
}

// BufferOptions controls how a generated buffer is scheduled.
type BufferOptions struct {
	Loop bool
	// Interrupt drops anything already scheduled on the node.
	Interrupt bool
}

// BufferPlayer plays precomputed synth buffers.
type BufferPlayer struct {
	queue   []scheduled
	pos     int
	playing bool
	volume  float32
}

type scheduled struct {
	buf  *synth.Buffer
	loop bool
}

func newBufferPlayer() *BufferPlayer {
	return &BufferPlayer{volume: 1}
}

// schedule appends buf, or replaces the queue when opts.Interrupt is set.
func (b *BufferPlayer) schedule(buf *synth.Buffer, opts BufferOptions) {
	if buf == nil || len(buf.Samples) == 0 {
		return
	}
	if opts.Interrupt {
		b.queue = b.queue[:0]
		b.pos = 0
	}
	b.queue = append(b.queue, scheduled{buf: buf, loop: opts.Loop})
}

func (b *BufferPlayer) play() { b.playing = len(b.queue) > 0 }

func (b *BufferPlayer) pause() { b.playing = false }

func (b *BufferPlayer) stop() {
	b.queue = b.queue[:0]
	b.pos = 0
	b.playing = false
}

func (b *BufferPlayer) Playing() bool { return b.playing }

func (b *BufferPlayer) Volume() float32 { return b.volume }

func (b *BufferPlayer) setVolume(v float32) { b.volume = v }

func (b *BufferPlayer) read(out []float32) {
	i := 0
	for b.playing && i < len(out) {
		cur := b.queue[0]
		samples := cur.buf.Samples
		n := copy(out[i:], samples[b.pos:])
		for j := i; j < i+n; j++ {
			out[j] *= b.volume
		}
		i += n
		b.pos += n

		if b.pos < len(samples) {
			continue
		}
		b.pos = 0
		if cur.loop && len(b.queue) == 1 {
			continue
		}
		b.queue = b.queue[1:]
		if len(b.queue) == 0 {
			b.playing = false
		}
	}
	clear(out[i:])
}
