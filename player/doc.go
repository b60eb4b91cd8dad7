// SPDX-License-Identifier: EPL-2.0

// Package player implements the playback controller.
//
// Every operation is queued onto one goroutine and runs in call order, so
// an auto-advance triggered by a finished track can never race a user's
// stop. Each scheduled file carries a token; completions for anything but
// the current token are ignored, and only a Finished completion while
// Playing advances to the next track.
//
// Track changes (SelectTrack, Next, Previous) are debounced when the call
// is made. Ephemeral UI sounds go through a SoundPool and never touch the
// effect chain.
package player
