package ui

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/maskpaint/internal/theme"
)

type frameState struct {
	size    image.Point
	canvas  *image.RGBA
	toolbar *toolbar
	theme   *theme.Theme
	status  string
}

// drawFrame assembles the whole window: toolbar, the editor canvas over a
// checkerboard so letterboxing and transparency stay visible, and the
// status line.
func drawFrame(dst *image.RGBA, st frameState) {
	th := st.theme
	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.Background}, image.Point{}, draw.Src)

	cr := canvasRect(st.size)
	if !cr.Empty() {
		drawCheckerboard(dst, cr, checkerSize, th.CheckerLight, th.CheckerDark)
		if st.canvas != nil {
			draw.Draw(dst, cr, st.canvas, st.canvas.Bounds().Min, draw.Over)
		}
	}

	if st.toolbar != nil {
		st.toolbar.draw(dst, th, st.size.Y-statusHeight)
	}

	sr := image.Rect(0, st.size.Y-statusHeight, st.size.X, st.size.Y)
	draw.Draw(dst, sr, &image.Uniform{th.StatusBackground}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.StatusText), Face: basicfont.Face7x13,
		Dot: fixed.P(sr.Min.X+6, sr.Min.Y+16)}
	d.DrawString(st.status)
}

// drawCheckerboard fills rect of dst with a checkerboard of the given
// colors. size is the square size in pixels.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	lu, du := &image.Uniform{light}, &image.Uniform{dark}
	for y := rect.Min.Y; y < rect.Max.Y; y += size {
		for x := rect.Min.X; x < rect.Max.X; x += size {
			src := lu
			if ((x-rect.Min.X)/size+(y-rect.Min.Y)/size)%2 != 0 {
				src = du
			}
			cell := image.Rect(x, y, x+size, y+size).Intersect(rect)
			draw.Draw(dst, cell, src, image.Point{}, draw.Src)
		}
	}
}
