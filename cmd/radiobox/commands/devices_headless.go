// SPDX-License-Identifier: EPL-2.0

//go:build headless

package commands

import (
	"errors"

	"github.com/ik5/radiobox/device"
)

func listDevices() ([]device.DeviceInfo, error) {
	return nil, errors.New("device listing needs portaudio; rebuild without the headless tag")
}
