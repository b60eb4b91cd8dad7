// SPDX-License-Identifier: EPL-2.0

package effects

import (
	"fmt"
	"strings"
)

// FilterMode selects one of the fixed radio effect presets.
type FilterMode int

const (
	AMRadio FilterMode = iota
	FMVintage
	HamRadio
	WalkieTalkie
)

var modeNames = [...]string{
	AMRadio:      "AM Radio",
	FMVintage:    "FM Vintage",
	HamRadio:     "Ham Radio",
	WalkieTalkie: "Walkie-Talkie",
}

var modeAliases = map[string]FilterMode{
	"am":            AMRadio,
	"am radio":      AMRadio,
	"fm":            FMVintage,
	"fm vintage":    FMVintage,
	"fm-vintage":    FMVintage,
	"ham":           HamRadio,
	"ham radio":     HamRadio,
	"shortwave":     HamRadio,
	"walkie":        WalkieTalkie,
	"walkie-talkie": WalkieTalkie,
	"walkie talkie": WalkieTalkie,
}

func (m FilterMode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("FilterMode(%d)", int(m))
	}
	return modeNames[m]
}

// Valid reports whether m is one of the known modes.
func (m FilterMode) Valid() bool {
	return m >= AMRadio && m <= WalkieTalkie
}

// Next returns the following mode, wrapping after the last one.
func (m FilterMode) Next() FilterMode {
	if !m.Valid() {
		return AMRadio
	}
	return (m + 1) % FilterMode(len(modeNames))
}

// FilterModes lists every mode in display order.
func FilterModes() []FilterMode {
	return []FilterMode{AMRadio, FMVintage, HamRadio, WalkieTalkie}
}

// ParseFilterMode accepts a display name or a short alias, case-insensitively.
func ParseFilterMode(s string) (FilterMode, error) {
	m, ok := modeAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return m, nil
}
