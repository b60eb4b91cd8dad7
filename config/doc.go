// SPDX-License-Identifier: EPL-2.0

// Package config loads radiobox settings from a YAML file and RADIOBOX_*
// environment variables.
//
// Example file:
//
//	audio:
//	  sample_rate: 48000
//	  output: headless
//	asset_dirs: [assets, /usr/share/radiobox]
//	player:
//	  debounce: 150ms
//	  filter: walkie
//	log:
//	  level: debug
package config
