// Package geometry maps image-space content onto a letterboxed viewport and
// maps normalized pointer positions back into image space.
package geometry

import (
	"image"
	"math"
)

// Size is a pixel width and height.
type Size struct {
	W, H int
}

// SizeOf returns the dimensions of r.
func SizeOf(r image.Rectangle) Size { return Size{W: r.Dx(), H: r.Dy()} }

// Empty reports whether either dimension is zero or negative.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// Placement is where the scaled image sits inside the canvas, in canvas
// pixels. X and Y are always whole pixels.
type Placement struct {
	X, Y float64
	W, H float64
}

// Empty reports whether the placement covers no area.
func (p Placement) Empty() bool { return p.W <= 0 || p.H <= 0 }

// Layout is a snapshot of the canvas/image relationship. Every value derived
// from one Layout agrees with every other, so a pointer resolved through it
// lands where the compositor will later draw the same image pixel.
type Layout struct {
	Canvas    Size
	Image     Size
	Factor    float64
	Placement Placement
	// Degenerate is set when either size has a zero dimension. The
	// placement is then zero-sized and pointers do not resolve.
	Degenerate bool
}

// Resolve computes the letterbox layout for an image shown in a canvas.
// The conversion factor is max(1, iw/cw, ih/ch): images larger than the
// canvas are shrunk to fit and smaller images are shown at native size.
// Odd margins put the extra pixel on the right or bottom.
func Resolve(canvas, img Size) Layout {
	l := Layout{Canvas: canvas, Image: img}
	if canvas.Empty() || img.Empty() {
		l.Degenerate = true
		return l
	}
	f := math.Max(float64(img.W)/float64(canvas.W), float64(img.H)/float64(canvas.H))
	if f < 1 {
		f = 1
	}
	w := float64(img.W) / f
	h := float64(img.H) / f
	l.Factor = f
	l.Placement = Placement{
		X: math.Floor((float64(canvas.W) - w) / 2),
		Y: math.Floor((float64(canvas.H) - h) / 2),
		W: w,
		H: h,
	}
	return l
}

// ResolvePlacement returns only the placement rectangle of Resolve.
func ResolvePlacement(canvas, img Size) Placement {
	return Resolve(canvas, img).Placement
}

// ConversionFactor returns the canvas-to-image scale, or 0 when degenerate.
func ConversionFactor(canvas, img Size) float64 {
	return Resolve(canvas, img).Factor
}

// ToImage converts a normalized viewport position (each axis in [0,1]) into
// image-space pixel coordinates. ok is false for a degenerate layout.
func (l Layout) ToImage(nx, ny float64) (x, y float64, ok bool) {
	if l.Degenerate {
		return 0, 0, false
	}
	x = (nx*float64(l.Canvas.W) - l.Placement.X) * l.Factor
	y = (ny*float64(l.Canvas.H) - l.Placement.Y) * l.Factor
	return x, y, true
}

// ToCanvas is the inverse of ToImage without the normalization: it returns
// canvas pixel coordinates for an image-space point.
func (l Layout) ToCanvas(x, y float64) (cx, cy float64, ok bool) {
	if l.Degenerate {
		return 0, 0, false
	}
	return x/l.Factor + l.Placement.X, y/l.Factor + l.Placement.Y, true
}

// ImageRadius scales a canvas-space length into image space.
func (l Layout) ImageRadius(r float64) float64 {
	return r * l.Factor
}

// Rect returns the placement in whole canvas pixels. Its origin is the
// same offset ToImage subtracts.
func (l Layout) Rect() image.Rectangle {
	if l.Degenerate || l.Placement.Empty() {
		return image.Rectangle{}
	}
	p := l.Placement
	x0, y0 := int(p.X), int(p.Y)
	return image.Rect(x0, y0, int(math.Round(p.X+p.W)), int(math.Round(p.Y+p.H)))
}
