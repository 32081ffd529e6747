package main

import (
	"errors"
	"image/color"
	"io"
	"log/slog"

	"gioui.org/app"
	"gioui.org/layout"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
)

var fileDialog *explorer.Explorer // Initialized in runE

var (
	openButton widget.Clickable
	backButton widget.Clickable
	fwdButton  widget.Clickable
	playButton widget.Clickable
	stopButton widget.Clickable
)

type openRequest struct {
	name string
	rc   io.ReadCloser
}

// openRequests hands files chosen in the dialog to the event loop.
var openRequests = make(chan openRequest, 1)

func openFileDialog(w *app.Window) {
	if fileDialog == nil {
		return
	}

	reader, err := fileDialog.ChooseFile(".mp3", ".wav", ".flac", ".ogg")
	if err != nil {
		if !errors.Is(err, explorer.ErrUserDecline) {
			slog.Error("Error selecting file", "error", err)
		}
		return
	}

	openRequests <- openRequest{name: readerName(reader), rc: reader}
	w.Invalidate()
}

func render(gtx C, th *material.Theme, v *viewer, e app.FrameEvent) {
	// Draw dark gray background.
	paint.ColorOp{Color: color.NRGBA{R: 30, G: 30, B: 30, A: 255}}.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)

	spacing := unit.Dp(5)

	// Outer horizontal flex: left for waveform/status, right for buttons.
	layout.Flex{
		Axis:    layout.Horizontal,
		Spacing: layout.SpaceStart,
	}.Layout(gtx,
		layout.Flexed(1, func(gtx C) D {
			return layout.Flex{
				Axis:    layout.Vertical,
				Spacing: layout.SpaceStart,
			}.Layout(gtx,
				layout.Flexed(1, func(gtx C) D {
					return renderWaveform(gtx, v)
				}),
				layout.Rigid(func(gtx C) D {
					return layout.Inset{Top: unit.Dp(4), Bottom: unit.Dp(4), Left: unit.Dp(4)}.Layout(gtx, func(gtx C) D {
						lbl := material.Body2(th, v.statusLine())
						lbl.Color = color.NRGBA{R: 220, G: 220, B: 220, A: 255}
						return lbl.Layout(gtx)
					})
				}),
			)
		}),
		// Right column: control buttons arranged vertically.
		layout.Rigid(func(gtx C) D {
			return layout.Flex{
				Axis:    layout.Vertical,
				Spacing: layout.SpaceStart,
			}.Layout(gtx,
				layout.Rigid(func(gtx C) D {
					return material.Button(th, &openButton, "Open").Layout(gtx)
				}),
				layout.Rigid(layout.Spacer{Height: spacing}.Layout),
				layout.Rigid(func(gtx C) D {
					return material.Button(th, &backButton, "Back").Layout(gtx)
				}),
				layout.Rigid(layout.Spacer{Height: spacing}.Layout),
				layout.Rigid(func(gtx C) D {
					return material.Button(th, &fwdButton, "Forward").Layout(gtx)
				}),
				layout.Rigid(layout.Spacer{Height: spacing}.Layout),
				layout.Rigid(func(gtx C) D {
					if v.state == Playing {
						return material.Button(th, &stopButton, "Stop").Layout(gtx)
					}
					return material.Button(th, &playButton, "Play").Layout(gtx)
				}),
			)
		}),
	)

	e.Frame(gtx.Ops)
}
