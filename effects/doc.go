// SPDX-License-Identifier: EPL-2.0

// Package effects configures and runs the radio effect chain: a three band
// equalizer, a waveshaping distortion and a feedback delay.
//
// Each FilterMode enables exactly one signature stage and bypasses the
// others. ParamsFor always returns a complete table, and Chain.Apply
// overwrites every stage, so switching modes never carries settings over.
//
//	chain, _ := effects.NewChain(44100, 2)
//	chain.ApplyMode(effects.HamRadio)
//	chain.Process(buf)
package effects
