// SPDX-License-Identifier: EPL-2.0

// Package synth generates the procedural buffers that make the player sound
// like a radio: static noise, a decaying roger beep and a drifting
// heterodyne whistle.
//
// Generation is done once, synchronously, before the engine accepts
// requests; the resulting buffers are never mutated.
//
//	bank, err := synth.NewBank(44100, 2, nil)
//	noise := bank.Noise // 5 s of looped static
package synth
