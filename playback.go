package main

import (
	"io"
	"log/slog"
	"path/filepath"

	"wavescrub/internal/engine"
	"wavescrub/internal/waveform"
)

// namer is implemented by readers that know their file name, like *os.File.
type namer interface {
	Name() string
}

func readerName(r io.Reader) string {
	if n, ok := r.(namer); ok {
		return filepath.Base(n.Name())
	}
	return "untitled"
}

// open decodes r and replaces the current track with it. If decoding or
// starting playback fails the current track keeps playing.
func (v *viewer) open(name string, rc io.ReadCloser) {
	defer rc.Close()
	track, err := v.engine.Decode(name, rc)
	if err != nil {
		v.fail("open "+name, err)
		return
	}
	v.load(track)
}

// openPath is open for a path given on the command line.
func (v *viewer) openPath(path string) {
	track, err := v.engine.OpenAndDecode(path)
	if err != nil {
		v.fail("open "+filepath.Base(path), err)
		return
	}
	v.load(track)
}

func (v *viewer) load(track *engine.Track) {
	store := waveform.NewStore()
	err := store.Load(track.PCM, waveform.SampleFormat{
		SampleRate: track.SampleRate,
		Channels:   track.Channels,
		BitDepth:   track.BitDepth,
	})
	if err != nil {
		v.fail("load "+track.Name, err)
		return
	}

	ch, err := v.engine.Play(track)
	if err != nil {
		v.fail("play "+track.Name, err)
		return
	}
	v.eject()

	v.store = store
	v.track = track
	v.channel = ch
	v.state = Playing
	v.status = ""
	v.cache.Load(store, ch, v.engine.LengthMs(track))

	slog.Info("Playing track",
		"name", track.Name,
		"format", track.Kind,
		"sample_rate", track.SampleRate,
		"frames", track.Frames)
}
