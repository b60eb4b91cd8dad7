// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ik5/radiobox/catalog"
	"github.com/ik5/radiobox/player"
)

var (
	accent = lipgloss.Color("#ffb000")
	dim    = lipgloss.Color("#6e7681")
	alert  = lipgloss.Color("#ff5f5f")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle  = lipgloss.NewStyle().Foreground(dim)
	valueStyle  = lipgloss.NewStyle().Foreground(accent)
	liveStyle   = lipgloss.NewStyle().Bold(true).Foreground(alert)
	helpStyle   = lipgloss.NewStyle().Foreground(dim)
	markerStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
)

const helpText = "space play/pause  n/p tune  1-9,0 preset  s stop  +/- volume  f filter  m monitor  r roger  o/c squelch  q quit"

// volumeBar draws v as a bar of width cells.
func volumeBar(v float64, width int) string {
	filled := min(max(int(v*float64(width)+0.5), 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// statusLine renders one line summarizing st.
func statusLine(st player.State) string {
	status := st.PlayState.String()
	if st.IsMonitoring {
		status = liveStyle.Render("ON AIR")
	}

	parts := []string{
		titleStyle.Render(st.Track.DisplayTitle()),
		labelStyle.Render("state ") + valueStyle.Render(status),
		labelStyle.Render("filter ") + valueStyle.Render(st.Filter.String()),
		labelStyle.Render("vol ") + valueStyle.Render(volumeBar(st.Volume, 10)),
	}
	return strings.Join(parts, "  ")
}

// trackLines renders the catalog, marking selected.
func trackLines(tracks []catalog.Track, selected int, exists func(string) bool) []string {
	width := 0
	for _, t := range tracks {
		width = max(width, lipgloss.Width(t.DisplayTitle()))
	}

	out := make([]string, 0, len(tracks))
	for i, t := range tracks {
		marker := "  "
		if i == selected {
			marker = markerStyle.Render("▶ ")
		}
		title := t.DisplayTitle()
		line := fmt.Sprintf("%s%2d  %s%s  %s", marker, i+1, titleStyle.Render(title),
			strings.Repeat(" ", width-lipgloss.Width(title)), labelStyle.Render(t.Filename))
		if exists != nil && !exists(t.Filename) {
			line += "  " + liveStyle.Render("missing")
		}
		out = append(out, line)
	}
	return out
}
