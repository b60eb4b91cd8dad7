// SPDX-License-Identifier: EPL-2.0

// Package portaudio captures a live input device for monitoring and lists
// the devices portaudio can see.
//
// It needs cgo and the portaudio headers. Builds with the headless tag
// leave it out.
package portaudio
