// SPDX-License-Identifier: EPL-2.0

//go:build headless

package radiobox

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ik5/radiobox/config"
	"github.com/ik5/radiobox/device"
)

func openOutput(cfg config.Config, _ logrus.FieldLogger) (Output, error) {
	if cfg.Audio.Output != config.BackendHeadless {
		return nil, fmt.Errorf("%w: %q in a headless build", ErrBackendUnavailable, cfg.Audio.Output)
	}
	return device.NewHeadless(cfg.Audio.SampleRate, cfg.Audio.Channels, cfg.Audio.HeadlessTick), nil
}

func openInput(cfg config.Config, _ logrus.FieldLogger) device.Input {
	return device.NewHeadlessInput(cfg.Audio.SampleRate, cfg.Audio.Channels, nil)
}
