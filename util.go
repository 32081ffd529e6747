package main

import "fmt"

// formatMs renders a position as m:ss.mmm.
func formatMs(ms uint) string {
	return fmt.Sprintf("%d:%02d.%03d", ms/60000, ms/1000%60, ms%1000)
}

// statusLine is the text under the waveform: the last error if there is
// one, otherwise position, length and zoom.
func (v *viewer) statusLine() string {
	if v.status != "" {
		return v.status
	}
	if v.state == NotInitialized {
		return "Open a file to start"
	}
	view := v.cache.View()
	pos := uint(0)
	if v.channel != nil {
		if p, err := v.channel.PositionMs(); err == nil {
			pos = p
		}
	}
	return fmt.Sprintf("%s / %s  %s  %s ms/px",
		formatMs(pos), formatMs(v.cache.TrackMs()), v.state, view.Scale())
}
