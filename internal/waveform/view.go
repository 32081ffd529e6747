package waveform

import "math"

// msPerPixelUnit is the baseline zoom: one millisecond per pixel at scale 1.0.
const msPerPixelUnit = 1

// View is the state that decides which slice of time is on screen.
// It is only changed by the Cache transitions; the mapping methods are pure.
type View struct {
	scale    Fixed
	offsetMs uint
	width    int
}

// NewView returns a view at the given scale, clamped to FixedOne.
func NewView(scale Fixed) View {
	if scale < FixedOne {
		scale = FixedOne
	}
	return View{scale: scale}
}

// Scale returns the milliseconds-per-pixel multiplier.
func (v View) Scale() Fixed { return v.scale }

// OffsetMs returns the time at the left edge.
func (v View) OffsetMs() uint { return v.offsetMs }

// Width returns the actual pixel width of the view.
func (v View) Width() int { return v.width }

// ActualPixelWidth converts a layout width in device independent units to
// physical pixel columns.
func ActualPixelWidth(layoutWidth, dpiScale float32) int {
	if layoutWidth <= 0 || dpiScale <= 0 {
		return 0
	}
	return int(math.Round(float64(layoutWidth) * float64(dpiScale)))
}

// PixelToMs maps a pixel column to a playback time.
func (v View) PixelToMs(px int) uint {
	return v.offsetMs + v.DistanceToMs(px)
}

// DistanceToMs returns the duration covered by span pixels.
func (v View) DistanceToMs(span int) uint {
	if span <= 0 {
		return 0
	}
	return uint((int64(span) * v.unit()) >> fixedShift)
}

// MsToPixel maps a playback time to a pixel column. Times left of the view
// map to 0.
func (v View) MsToPixel(ms uint) int {
	if ms < v.offsetMs {
		return 0
	}
	return int((int64(ms-v.offsetMs) << fixedShift) / v.unit())
}

// unit is the fixed-point milliseconds per pixel. A zero View behaves as
// scale 1.0.
func (v View) unit() int64 {
	return msPerPixelUnit * int64(max(v.scale, FixedOne))
}

// WindowMs returns the duration of the whole visible window.
func (v View) WindowMs() uint {
	return v.DistanceToMs(v.width)
}

// RightEdgeMs returns the time at the right edge of the view.
func (v View) RightEdgeMs() uint {
	return v.PixelToMs(v.width)
}

// Contains reports whether ms is inside [offset, right edge].
func (v View) Contains(ms uint) bool {
	return ms >= v.offsetMs && ms <= v.RightEdgeMs()
}

// MsToSampleIndex converts a time to a sample index. The result is not
// clamped.
func MsToSampleIndex(ms uint, sampleRate int) int {
	return int(int64(ms) * int64(sampleRate) / 1000)
}
