// SPDX-License-Identifier: EPL-2.0

// Package device defines the interfaces between the engine and audio
// hardware, plus hardware-free implementations.
//
// Headless and HeadlessInput satisfy Output, SoundOutput and Input without
// cgo. The oto output and the portaudio capture stream live in the
// device/oto and device/portaudio subpackages.
package device
