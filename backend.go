// SPDX-License-Identifier: EPL-2.0

//go:build !headless

package radiobox

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ik5/radiobox/config"
	"github.com/ik5/radiobox/device"
	"github.com/ik5/radiobox/device/oto"
	"github.com/ik5/radiobox/device/portaudio"
)

func openOutput(cfg config.Config, log logrus.FieldLogger) (Output, error) {
	if cfg.Audio.Output == config.BackendHeadless {
		return device.NewHeadless(cfg.Audio.SampleRate, cfg.Audio.Channels, cfg.Audio.HeadlessTick), nil
	}
	out, err := oto.New(cfg.Audio.SampleRate, cfg.Audio.Channels, cfg.Audio.BufferSize, log)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	return out, nil
}

// openInput returns nil when no capture device can be prepared; monitoring
// then reports engine.ErrNoInput.
func openInput(cfg config.Config, log logrus.FieldLogger) device.Input {
	if cfg.Audio.Output == config.BackendHeadless {
		return device.NewHeadlessInput(cfg.Audio.SampleRate, cfg.Audio.Channels, nil)
	}
	in, err := portaudio.NewInput(cfg.Audio.InputDevice, cfg.Audio.SampleRate, cfg.Audio.Channels, cfg.Audio.InputFrames, log)
	if err != nil {
		log.WithField("component", "radiobox").WithError(err).Warn("no capture device")
		return nil
	}
	return in
}
