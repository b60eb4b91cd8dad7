// SPDX-License-Identifier: EPL-2.0

// Package oto is the hardware output: one oto v3 player pulls the engine's
// mix and further short-lived players carry ephemeral sounds.
//
// It needs cgo and the platform audio headers (ALSA on Linux). Builds with
// the headless tag leave it out.
package oto
