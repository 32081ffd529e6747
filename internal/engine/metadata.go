package engine

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/dhowden/tag"
)

// Meta is the subset of track tags shown in the window title.
type Meta struct {
	Title  string
	Artist string
	Album  string
}

func readMeta(data []byte) Meta {
	m, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		slog.Debug("no readable tags", "error", err)
		return Meta{}
	}
	return Meta{
		Title:  strings.TrimSpace(m.Title()),
		Artist: strings.TrimSpace(m.Artist()),
		Album:  strings.TrimSpace(m.Album()),
	}
}

// Caption returns "Artist - Title", whichever parts exist, or fallback.
func (m Meta) Caption(fallback string) string {
	switch {
	case m.Artist != "" && m.Title != "":
		return m.Artist + " - " + m.Title
	case m.Title != "":
		return m.Title
	}
	return fallback
}
