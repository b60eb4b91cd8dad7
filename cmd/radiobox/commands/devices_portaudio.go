// SPDX-License-Identifier: EPL-2.0

//go:build !headless

package commands

import "github.com/ik5/radiobox/device/portaudio"

var listDevices = portaudio.Devices
