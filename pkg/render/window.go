// Package render draws the typing overlay into a desktop preview
// window. It is a one-way sink over the session's View; the only thing
// it reports back is the key command for the frame.
package render

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"gocv.io/x/gocv"

	"github.com/blinktalk/go-blinktalk/pkg/gaze"
	"github.com/blinktalk/go-blinktalk/pkg/session"
	"github.com/blinktalk/go-blinktalk/pkg/vision"
)

var (
	colGrid    = color.RGBA{R: 80, G: 80, B: 80, A: 0}
	colLetter  = color.RGBA{R: 200, G: 200, B: 200, A: 0}
	colFlash   = color.RGBA{R: 0, G: 220, B: 0, A: 0}
	colGazeDot = color.RGBA{R: 0, G: 140, B: 255, A: 0}
	colText    = color.RGBA{R: 255, G: 255, B: 255, A: 0}
	colPrompt  = color.RGBA{R: 0, G: 220, B: 220, A: 0}
)

const (
	keyQuit    = 'q'
	keyEscape  = 27
	keyCapture = ' '
)

// Window renders frames into a gocv preview window.
type Window struct {
	win *gocv.Window
}

// NewWindow opens the preview window.
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

// Render draws the overlay onto the frame, shows it, and maps the
// pressed key to a driver command. The frame Mat is drawn on in place;
// the capture loop overwrites it on the next read.
func (w *Window) Render(frame vision.Frame, view session.View) session.Command {
	img := frame.Image

	if view.Grid != nil {
		drawGrid(&img, *view.Grid, view.Flash)
	}
	if view.GazePoint != nil {
		gocv.Circle(&img, image.Pt(int(view.GazePoint.X), int(view.GazePoint.Y)), 6, colGazeDot, -1)
	}
	drawMessageBar(&img, view)

	w.win.IMShow(img)
	switch w.win.WaitKey(1) {
	case keyQuit, keyEscape:
		return session.CommandQuit
	case keyCapture:
		return session.CommandCapture
	}
	return session.CommandNone
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}

func drawGrid(img *gocv.Mat, grid gaze.Grid, flash gaze.Flash) {
	cellW, cellH := grid.CellSize()

	if flash.Active(time.Now()) {
		cell := image.Rect(
			flash.Cell.Col*cellW, flash.Cell.Row*cellH,
			(flash.Cell.Col+1)*cellW, (flash.Cell.Row+1)*cellH,
		)
		gocv.Rectangle(img, cell, colFlash, 3)
	}

	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			cell := image.Rect(col*cellW, row*cellH, (col+1)*cellW, (row+1)*cellH)
			gocv.Rectangle(img, cell, colGrid, 1)
			if letter, ok := grid.Letter(gaze.Cell{Row: row, Col: col}); ok {
				org := image.Pt(col*cellW+cellW/2-8, row*cellH+cellH/2+8)
				gocv.PutText(img, string(letter), org, gocv.FontHersheySimplex, 0.8, colLetter, 2)
			}
		}
	}
}

func drawMessageBar(img *gocv.Mat, view session.View) {
	h := img.Rows()
	w := img.Cols()
	bar := image.Rect(0, h-40, w, h)
	gocv.Rectangle(img, bar, color.RGBA{}, -1)

	text := view.Message
	if view.Pending != "" {
		text = fmt.Sprintf("%s [%s]", view.Message, view.Pending)
	}
	gocv.PutText(img, text, image.Pt(10, h-12), gocv.FontHersheySimplex, 0.7, colText, 2)

	if view.PendingCorner != "" {
		prompt := fmt.Sprintf("look at the %s corner, press space", view.PendingCorner)
		gocv.PutText(img, prompt, image.Pt(10, 30), gocv.FontHersheySimplex, 0.7, colPrompt, 2)
	}
}
