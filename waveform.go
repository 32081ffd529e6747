package main

import (
	"image"
	"image/color"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"

	"wavescrub/internal/waveform"
)

var waveformColor1 = color.NRGBA{R: 0, G: 255, B: 0, A: 255}
var waveformColor2 = color.NRGBA{R: 0, G: 0, B: 255, A: 255}
var laneColor = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
var playheadColor = color.NRGBA{R: 255, G: 40, B: 40, A: 255}

// renderWaveform paints both channel lanes and the playhead, and turns
// clicks on the waveform into seeks.
func renderWaveform(gtx C, v *viewer) D {
	size := gtx.Constraints.Max
	v.cache.Resize(
		float32(gtx.Metric.PxToDp(size.X)),
		float32(gtx.Metric.PxToDp(size.Y)),
		gtx.Metric.PxPerDp,
	)

	for {
		ev, ok := gtx.Event(pointer.Filter{Target: v, Kinds: pointer.Press})
		if !ok {
			break
		}
		if e, ok := ev.(pointer.Event); ok && e.Kind == pointer.Press {
			v.seek(int(e.Position.X))
		}
	}

	frame := v.frame()

	area := clip.Rect(image.Rectangle{Max: size}).Push(gtx.Ops)
	defer area.Pop()
	event.Op(gtx.Ops, v)

	// Lane center lines.
	lane := float32(size.Y) / 2
	var centerLinePath clip.Path
	centerLinePath.Begin(gtx.Ops)
	for _, y := range []float32{lane / 2, lane + lane/2} {
		centerLinePath.MoveTo(f32.Pt(0, y))
		centerLinePath.LineTo(f32.Pt(float32(size.X), y))
	}
	paint.FillShape(gtx.Ops, laneColor, clip.Stroke{
		Path:  centerLinePath.End(),
		Width: 1,
	}.Op())

	if frame.State == waveform.Empty {
		return D{Size: size}
	}

	drawSegments(gtx, frame.Segments, waveform.Left, waveformColor1, waveformColor2)
	drawSegments(gtx, frame.Segments, waveform.Right, waveformColor2, waveformColor1)

	if frame.PlayheadX >= 0 && frame.PlayheadX < size.X {
		x := float32(frame.PlayheadX)
		var playhead clip.Path
		playhead.Begin(gtx.Ops)
		playhead.MoveTo(f32.Pt(x, 0))
		playhead.LineTo(f32.Pt(x, float32(size.Y)))
		paint.FillShape(gtx.Ops, playheadColor, clip.Stroke{
			Path:  playhead.End(),
			Width: float32(gtx.Dp(unit.Dp(1))),
		}.Op())
	}
	return D{Size: size}
}

// drawSegments strokes one channel's segments and fills them with a
// gradient running from c1 to c2 across the view.
func drawSegments(gtx C, segments []waveform.Segment, ch waveform.Channel, c1, c2 color.NRGBA) {
	var path clip.Path
	path.Begin(gtx.Ops)
	for _, s := range segments {
		if s.Channel != ch {
			continue
		}
		path.MoveTo(s.From)
		path.LineTo(s.To)
	}
	strokeOp := clip.Stroke{
		Path:  path.End(),
		Width: 1,
	}.Op()

	clipStack := strokeOp.Push(gtx.Ops)
	defer clipStack.Pop()

	grad := paint.LinearGradientOp{
		Stop1:  f32.Pt(0, 0),
		Stop2:  f32.Pt(float32(gtx.Constraints.Max.X), float32(gtx.Constraints.Max.Y)),
		Color1: c1,
		Color2: c2,
	}
	grad.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
}
