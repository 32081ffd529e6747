package waveform

import (
	"fmt"
	"log/slog"

	"gioui.org/f32"
)

// Cursor is the playback position of the audio engine as seen by the view.
type Cursor interface {
	PositionMs() (uint, error)
	SetPositionMs(ms uint) error
}

// State of the cached geometry.
type State int

const (
	Empty State = iota // no track loaded
	Ready              // segments match the view
	Dirty              // the view changed since the last rebuild
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Ready:
		return "ready"
	case Dirty:
		return "dirty"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Segment is one line of the waveform polyline.
type Segment struct {
	Channel  Channel
	From, To f32.Point
}

// Frame is everything needed to paint one frame.
type Frame struct {
	State      State
	Segments   []Segment // owned by the Cache, valid until the next call
	PlayheadX  int
	PositionMs uint
}

// Cache owns the view state and the waveform geometry built from it.
// It is not safe for concurrent use.
type Cache struct {
	store   *Store
	cursor  Cursor
	trackMs uint

	view     View
	height   float32
	state    State
	segments []Segment
}

// NewCache returns an empty cache whose view starts at scale.
func NewCache(scale Fixed) *Cache {
	return &Cache{view: NewView(scale)}
}

// State returns the current cache state.
func (c *Cache) State() State { return c.state }

// View returns a copy of the current view state.
func (c *Cache) View() View { return c.view }

// TrackMs returns the length of the loaded track.
func (c *Cache) TrackMs() uint { return c.trackMs }

// Load attaches freshly loaded samples and the cursor of the channel playing
// them. The view scrolls back to the start.
func (c *Cache) Load(store *Store, cursor Cursor, trackMs uint) {
	c.store = store
	c.cursor = cursor
	c.trackMs = trackMs
	c.view.offsetMs = 0
	c.segments = c.segments[:0]
	c.state = Dirty

	slog.Debug("waveform cache loaded",
		"samples", store.Len(),
		"track_ms", trackMs)
}

// Unload drops the track and returns to Empty.
func (c *Cache) Unload() {
	c.store = nil
	c.cursor = nil
	c.trackMs = 0
	c.view.offsetMs = 0
	c.segments = nil
	c.state = Empty
}

func (c *Cache) invalidate() {
	if c.state != Empty {
		c.state = Dirty
	}
}

// Resize updates the layout size. layoutWidth and layoutHeight are in
// device independent units, dpiScale converts them to pixels.
func (c *Cache) Resize(layoutWidth, layoutHeight, dpiScale float32) {
	width := ActualPixelWidth(layoutWidth, dpiScale)
	height := layoutHeight * dpiScale
	if width == c.view.width && height == c.height {
		return
	}
	c.view.width = width
	c.height = height
	c.invalidate()

	slog.Debug("waveform view resized", "width", width, "height", height)
}

// ZoomIn halves the scale, stopping at 1.0.
func (c *Cache) ZoomIn() {
	c.view.scale = c.view.scale.Half()
	c.invalidate()
	slog.Debug("zoom in", "scale", c.view.scale)
}

// ZoomOut doubles the scale.
func (c *Cache) ZoomOut() {
	c.view.scale = c.view.scale.Double()
	c.invalidate()
	slog.Debug("zoom out", "scale", c.view.scale)
}

// ForwardPage scrolls one window to the right and moves playback there.
// The window never starts past the point where the track end is on screen.
// When auto-scroll has already carried the view beyond that point, paging
// forward leaves both the view and playback alone.
func (c *Cache) ForwardPage() error {
	window := c.view.WindowMs()
	var limit uint
	if c.trackMs > window {
		limit = c.trackMs - window
	}
	if c.view.offsetMs > limit {
		return nil
	}
	next := c.view.offsetMs + window
	if next > limit {
		next = limit
	}
	return c.page(next)
}

// BackPage scrolls one window to the left and moves playback there.
func (c *Cache) BackPage() error {
	window := c.view.WindowMs()
	var next uint
	if c.view.offsetMs > window {
		next = c.view.offsetMs - window
	}
	return c.page(next)
}

func (c *Cache) page(offsetMs uint) error {
	c.view.offsetMs = offsetMs
	c.invalidate()
	slog.Debug("page", "offset_ms", offsetMs)

	if c.cursor == nil {
		return nil
	}
	if err := c.cursor.SetPositionMs(offsetMs); err != nil {
		return fmt.Errorf("move playback to %dms: %w", offsetMs, err)
	}
	return nil
}

// ScrollTo puts ms at the left edge, limited to the track length.
func (c *Cache) ScrollTo(ms uint) {
	if ms > c.trackMs {
		ms = c.trackMs
	}
	if ms == c.view.offsetMs {
		return
	}
	c.view.offsetMs = ms
	c.invalidate()
}

// OnClickSeek moves playback to the time under pixel column px.
// The view does not move.
func (c *Cache) OnClickSeek(px int) error {
	if c.cursor == nil {
		return nil
	}
	ms := c.view.PixelToMs(px)
	slog.Debug("click seek", "x", px, "ms", ms)
	if err := c.cursor.SetPositionMs(ms); err != nil {
		return fmt.Errorf("seek to %dms: %w", ms, err)
	}
	return nil
}

// OnRenderFrame follows playback past the right edge, rebuilds the
// geometry when needed and reports where the playhead goes.
func (c *Cache) OnRenderFrame() (Frame, error) {
	if c.state == Empty || c.cursor == nil {
		return Frame{State: Empty}, nil
	}
	pos, err := c.cursor.PositionMs()
	if err != nil {
		return Frame{}, fmt.Errorf("read playback position: %w", err)
	}
	if c.view.width > 0 && pos > c.view.RightEdgeMs() {
		slog.Debug("playback left the window, scrolling",
			"position_ms", pos,
			"right_edge_ms", c.view.RightEdgeMs())
		c.ScrollTo(pos)
	}
	if c.state == Dirty {
		if err := c.Rebuild(); err != nil {
			return Frame{}, err
		}
	}
	return Frame{
		State:      c.state,
		Segments:   c.segments,
		PlayheadX:  c.view.MsToPixel(pos),
		PositionMs: pos,
	}, nil
}

// Rebuild recomputes the segments for the current view. Every column gets
// a left and a right segment joining it to the previous column; columns past
// the last sample are left out.
func (c *Cache) Rebuild() error {
	if c.state == Empty {
		return nil
	}
	c.segments = c.segments[:0]

	width := c.view.width
	start := c.view.offsetMs
	span := int64(c.view.RightEdgeMs() - start)
	rate := c.store.SampleRate()
	lane := c.height / 2

	var prev [2]f32.Point
	for i := 0; i < width; i++ {
		t := start + uint(span*int64(i)/int64(width))
		idx := MsToSampleIndex(t, rate)
		if idx >= c.store.Len() {
			break
		}
		for _, ch := range [...]Channel{Left, Right} {
			amp, err := c.store.AmplitudeAt(ch, idx)
			if err != nil {
				return fmt.Errorf("rebuild column %d: %w", i, err)
			}
			center := lane/2 + float32(ch)*lane
			pt := f32.Pt(float32(i), center-amp*lane)
			if i == 0 {
				prev[ch] = pt
			}
			c.segments = append(c.segments, Segment{Channel: ch, From: prev[ch], To: pt})
			prev[ch] = pt
		}
	}
	c.state = Ready

	slog.Debug("waveform rebuilt",
		"offset_ms", start,
		"scale", c.view.scale,
		"columns", len(c.segments)/2)
	return nil
}
