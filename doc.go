// SPDX-License-Identifier: EPL-2.0

// Package radiobox is the audio subsystem of a retro radio player.
//
// Open wires the pieces together from a config.Config:
//
//   - synth generates the noise, beep and heterodyne buffers
//   - engine routes the track player (or the live input while monitoring)
//     through the effects chain into the mixer
//   - player serializes every user action onto one goroutine
//   - device drives an oto output and a portaudio capture stream, or their
//     headless twins
//
// # Quick Start
//
//	cfg, err := config.Load("radiobox.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	box, err := radiobox.Open(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer box.Close()
//
//	box.Controller.SelectTrack(0, true)
//	box.Controller.SetFilter(effects.AMRadio)
//	box.Controller.PlayEphemeralSound("tick", 1.2)
//
// # Decoders
//
// DefaultRegistry maps mp3, wav, aiff/aif and ogg to the decoders in
// formats/. Track and UI sound names are resolved against every registered
// extension, mp3 first.
package radiobox
