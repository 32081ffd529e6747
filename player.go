package main

import (
	"io"
	"log/slog"

	"gioui.org/io/key"

	"wavescrub/internal/engine"
	"wavescrub/internal/waveform"
)

// PlaybackState contains the various possible states of our playback
type PlaybackState int

const (
	NotInitialized PlaybackState = iota
	Playing
	Suspended
	Finished
)

func (s PlaybackState) String() string {
	switch s {
	case Playing:
		return "playing"
	case Suspended:
		return "paused"
	case Finished:
		return "finished"
	}
	return "no file"
}

// playback is a playing channel as the viewer uses it.
type playback interface {
	waveform.Cursor
	SetPaused(paused bool) error
	Close() error
}

type audioEngine interface {
	Decode(name string, r io.Reader) (*engine.Track, error)
	OpenAndDecode(path string) (*engine.Track, error)
	Play(track *engine.Track) (playback, error)
	LengthMs(track *engine.Track) uint
}

// beepEngine adapts *engine.Engine to audioEngine.
type beepEngine struct {
	*engine.Engine
}

func (b beepEngine) Play(track *engine.Track) (playback, error) {
	ch, err := b.Engine.Play(track)
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// viewer ties the loaded track, its playback channel and the waveform
// cache together. All methods run on the window's event loop.
type viewer struct {
	engine  audioEngine
	cache   *waveform.Cache
	store   *waveform.Store
	track   *engine.Track
	channel playback
	state   PlaybackState
	status  string
}

func newViewer(eng audioEngine, scale waveform.Fixed) *viewer {
	return &viewer{
		engine: eng,
		cache:  waveform.NewCache(scale),
		store:  waveform.NewStore(),
	}
}

// fail records a recoverable error for the status line.
func (v *viewer) fail(op string, err error) {
	slog.Error("operation failed", "op", op, "error", err)
	v.status = op + ": " + err.Error()
}

func (v *viewer) title() string {
	if v.track == nil {
		return "wavescrub"
	}
	return v.track.Meta.Caption(v.track.Name) + " - wavescrub"
}

func (v *viewer) play() {
	switch v.state {
	case Suspended:
		v.setPaused(false)
	case Finished:
		if err := v.channel.SetPositionMs(0); err != nil {
			v.fail("restart", err)
			return
		}
		v.cache.ScrollTo(0)
		v.setPaused(false)
	}
}

func (v *viewer) stop() {
	if v.state == Playing {
		v.setPaused(true)
	}
}

func (v *viewer) togglePause() {
	if v.state == Playing {
		v.stop()
	} else {
		v.play()
	}
}

func (v *viewer) setPaused(paused bool) {
	if err := v.channel.SetPaused(paused); err != nil {
		v.fail("pause", err)
		return
	}
	if paused {
		v.state = Suspended
	} else {
		v.state = Playing
	}
}

func (v *viewer) eject() {
	if v.channel != nil {
		if err := v.channel.Close(); err != nil {
			slog.Warn("closing channel", "error", err)
		}
		slog.Info("Ejected current file", "name", v.track.Name)
	}
	v.channel = nil
	v.track = nil
	v.state = NotInitialized
	v.cache.Unload()
}

func (v *viewer) forwardPage() {
	if err := v.cache.ForwardPage(); err != nil {
		v.fail("page forward", err)
		return
	}
	v.resumeIfRewound()
}

func (v *viewer) backPage() {
	if err := v.cache.BackPage(); err != nil {
		v.fail("page back", err)
		return
	}
	v.resumeIfRewound()
}

func (v *viewer) seek(px int) {
	if err := v.cache.OnClickSeek(px); err != nil {
		v.fail("seek", err)
		return
	}
	v.resumeIfRewound()
}

// resumeIfRewound leaves Finished once a seek moved playback back inside
// the track. A finished channel is never paused, so audio is already
// running again by then.
func (v *viewer) resumeIfRewound() {
	if v.state != Finished || v.channel == nil {
		return
	}
	pos, err := v.channel.PositionMs()
	if err != nil {
		v.fail("position", err)
		return
	}
	if pos < v.cache.TrackMs() {
		v.state = Playing
	}
}

func (v *viewer) handleKey(name key.Name) {
	switch name {
	case "+", "=":
		v.cache.ZoomIn()
	case "-":
		v.cache.ZoomOut()
	case key.NameLeftArrow:
		v.backPage()
	case key.NameRightArrow:
		v.forwardPage()
	case key.NameSpace:
		v.togglePause()
	}
}

// frame returns the geometry for the next paint and notices the end of
// the track.
func (v *viewer) frame() waveform.Frame {
	f, err := v.cache.OnRenderFrame()
	if err != nil {
		v.fail("render", err)
	}
	if f.State == waveform.Empty {
		return f
	}
	switch {
	case v.state == Playing && f.PositionMs >= v.cache.TrackMs():
		v.state = Finished
	case v.state == Finished && f.PositionMs < v.cache.TrackMs():
		v.state = Playing
	}
	return f
}
