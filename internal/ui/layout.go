package ui

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

const (
	buttonHeight = 24
	statusHeight = 24
	checkerSize  = 8
)

var toolbarWidth = 96

// fitToolbar widens the toolbar so every button label fits.
func fitToolbar() {
	d := &font.Drawer{Face: basicfont.Face7x13}
	for _, a := range toolbarActions {
		if w := d.MeasureString(a.label).Ceil() + 12; w > toolbarWidth {
			toolbarWidth = w
		}
	}
}

// canvasRect returns the part of a window of the given size that shows the
// editor canvas: everything right of the toolbar and above the status line.
func canvasRect(win image.Point) image.Rectangle {
	r := image.Rect(toolbarWidth, 0, win.X, win.Y-statusHeight)
	if r.Dx() < 0 {
		r.Max.X = r.Min.X
	}
	if r.Dy() < 0 {
		r.Max.Y = r.Min.Y
	}
	return r
}

// normalize maps a window position to canvas-normalized coordinates. The
// result is not clamped, so drags that leave the canvas keep painting
// toward the edge.
func normalize(canvas image.Rectangle, x, y float32) (nx, ny float64, ok bool) {
	if canvas.Empty() {
		return 0, 0, false
	}
	nx = (float64(x) - float64(canvas.Min.X)) / float64(canvas.Dx())
	ny = (float64(y) - float64(canvas.Min.Y)) / float64(canvas.Dy())
	return nx, ny, true
}
