// SPDX-License-Identifier: EPL-2.0

package portaudio

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	pa "github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"

	"github.com/ik5/radiobox/device"
)

// ringSeconds is how much captured audio the input keeps buffered.
const ringSeconds = 1

// Devices lists the portaudio devices. Index is 1-based, matching the
// numbers accepted by NewInput.
func Devices() ([]device.DeviceInfo, error) {
	if err := pa.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}
	defer func() { _ = pa.Terminate() }()

	devices, err := pa.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	defIn, _ := pa.DefaultInputDevice()
	defOut, _ := pa.DefaultOutputDevice()

	out := make([]device.DeviceInfo, 0, len(devices))
	for i, d := range devices {
		info := device.DeviceInfo{
			Index:             i + 1,
			Name:              d.Name,
			MaxInputChannels:  d.MaxInputChannels,
			MaxOutputChannels: d.MaxOutputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
			DefaultInput:      defIn != nil && d.Name == defIn.Name,
			DefaultOutput:     defOut != nil && d.Name == defOut.Name,
		}
		if d.HostApi != nil {
			info.HostAPI = d.HostApi.Name
		}
		out = append(out, info)
	}
	return out, nil
}

// findDevice resolves dev as a 1-based index or a name prefix. An empty
// name selects the default input.
func findDevice(dev string) (*pa.DeviceInfo, error) {
	if dev == "" {
		return pa.DefaultInputDevice()
	}

	devices, err := pa.Devices()
	if err != nil {
		return nil, err
	}

	if i, err := strconv.Atoi(dev); err == nil && i > 0 && i <= len(devices) {
		return devices[i-1], nil
	}

	for _, d := range devices {
		if strings.HasPrefix(d.Name, dev) && d.MaxInputChannels > 0 {
			return d, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", device.ErrDeviceNotFound, dev)
}

// Input captures a live input device into a ring buffer. Capture
// runs on its own goroutine between Start and Stop.
type Input struct {
	device   string
	rate     int
	channels int
	frames   int
	log      logrus.FieldLogger

	ring *ring

	mu      sync.Mutex
	stream  *pa.Stream
	done    chan struct{}
	wg      sync.WaitGroup
	started bool
}

// NewInput prepares capture from dev (index, name prefix, or empty
// for the default device). bufferFrames is the portaudio block size.
func NewInput(dev string, sampleRate, channels, bufferFrames int, log logrus.FieldLogger) (*Input, error) {
	if sampleRate <= 0 {
		return nil, device.ErrInvalidSampleRate
	}
	if channels <= 0 {
		return nil, device.ErrInvalidChannels
	}
	if bufferFrames <= 0 {
		bufferFrames = 512
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Input{
		device:   dev,
		rate:     sampleRate,
		channels: channels,
		frames:   bufferFrames,
		log:      log.WithField("component", "portaudio"),
		ring:     newRing(sampleRate * channels * ringSeconds),
	}, nil
}

func (in *Input) SampleRate() int { return in.rate }
func (in *Input) Channels() int   { return in.channels }
func (in *Input) BufSize() int    { return in.frames * in.channels }

func (in *Input) Start() error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.started {
		return nil
	}

	if err := pa.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}

	info, err := findDevice(in.device)
	if err != nil {
		_ = pa.Terminate()
		return err
	}

	p := pa.LowLatencyParameters(info, nil)
	p.Input.Channels = in.channels
	p.Output.Channels = 0
	p.SampleRate = float64(in.rate)
	p.FramesPerBuffer = in.frames

	buf := make([]float32, in.frames*in.channels)
	stream, err := pa.OpenStream(p, buf)
	if err != nil {
		_ = pa.Terminate()
		return fmt.Errorf("open input: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = pa.Terminate()
		return fmt.Errorf("start input: %w", err)
	}

	in.ring.Reset()
	in.stream = stream
	in.done = make(chan struct{})
	in.started = true

	in.wg.Add(1)
	go in.capture(stream, buf, in.done)

	in.log.WithFields(logrus.Fields{
		"device":   info.Name,
		"rate":     in.rate,
		"channels": in.channels,
	}).Info("input started")
	return nil
}

func (in *Input) capture(stream *pa.Stream, buf []float32, done <-chan struct{}) {
	defer in.wg.Done()

	for {
		select {
		case <-done:
			return
		default:
		}

		if err := stream.Read(); err != nil {
			select {
			case <-done:
				return
			default:
			}
			in.log.WithError(err).Warn("input read failed")
			time.Sleep(10 * time.Millisecond)
			continue
		}
		in.ring.Write(buf)
	}
}

func (in *Input) Stop() error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if !in.started {
		return nil
	}

	close(in.done)
	err := in.stream.Stop()
	in.wg.Wait()
	if cerr := in.stream.Close(); err == nil {
		err = cerr
	}
	if terr := pa.Terminate(); err == nil {
		err = terr
	}

	in.stream = nil
	in.started = false
	in.ring.Reset()
	return err
}

// ReadSamples returns captured samples, padding with silence on underrun.
func (in *Input) ReadSamples(dst []float32) (int, error) {
	n := in.ring.Read(dst)
	clear(dst[n:])
	return len(dst), nil
}

func (in *Input) Close() error { return in.Stop() }
