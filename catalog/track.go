// SPDX-License-Identifier: EPL-2.0

package catalog

import (
	"github.com/google/uuid"

	"github.com/ik5/radiobox/utils"
)

// Track is one entry of the station's playlist. Filename is the resource
// name without extension.
type Track struct {
	ID       uuid.UUID
	Title    string
	Filename string
	Artist   string
}

// DisplayTitle joins artist and title for a status line.
func (t Track) DisplayTitle() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}

// Catalog is a fixed, ordered list of tracks.
type Catalog struct {
	tracks []Track
}

// New builds a catalog, assigning a fresh ID to every track without one.
func New(tracks []Track) *Catalog {
	out := make([]Track, len(tracks))
	for i, t := range tracks {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		out[i] = t
	}
	return &Catalog{tracks: out}
}

var defaultTracks = []Track{
	{Title: "Clair de Lune", Filename: "clair_de_lune", Artist: "Claude Debussy"},
	{Title: "Gymnopédie No. 1", Filename: "gymnopedie_1", Artist: "Erik Satie"},
	{Title: "Nocturne Op. 9 No. 2", Filename: "nocturne_op9_2", Artist: "Frédéric Chopin"},
	{Title: "Spring (The Four Seasons)", Filename: "four_seasons_spring", Artist: "Antonio Vivaldi"},
	{Title: "Canon in D", Filename: "canon_in_d", Artist: "Johann Pachelbel"},
	{Title: "Moonlight Sonata", Filename: "moonlight_sonata", Artist: "Ludwig van Beethoven"},
	{Title: "Für Elise", Filename: "fur_elise", Artist: "Ludwig van Beethoven"},
	{Title: "Air on the G String", Filename: "air_on_g_string", Artist: "Johann Sebastian Bach"},
	{Title: "The Blue Danube", Filename: "blue_danube", Artist: "Johann Strauss II"},
	{Title: "Eine kleine Nachtmusik", Filename: "eine_kleine_nachtmusik", Artist: "Wolfgang Amadeus Mozart"},
}

// Default returns the built-in ten track catalog.
func Default() *Catalog {
	return New(defaultTracks)
}

func (c *Catalog) Len() int { return len(c.tracks) }

// At returns the track at i. ok is false when i is out of range.
func (c *Catalog) At(i int) (Track, bool) {
	if i < 0 || i >= len(c.tracks) {
		return Track{}, false
	}
	return c.tracks[i], true
}

// Clamp maps i into the valid index range.
func (c *Catalog) Clamp(i int) int {
	return utils.ClampIndex(i, len(c.tracks))
}

// Wrap maps i onto the catalog modulo its length.
func (c *Catalog) Wrap(i int) int {
	n := len(c.tracks)
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}

// Tracks returns a copy of the track list.
func (c *Catalog) Tracks() []Track {
	out := make([]Track, len(c.tracks))
	copy(out, c.tracks)
	return out
}

// Index returns the position of the track with the given filename.
func (c *Catalog) Index(filename string) (int, bool) {
	for i, t := range c.tracks {
		if t.Filename == filename {
			return i, true
		}
	}
	return 0, false
}
