package ui

import (
	"image"
	"image/color"
)

// windowCanvas is the editor's visible output. The editor binds to one
// canvas for its whole life, so a window resize swaps the backing store
// behind the same value.
type windowCanvas struct {
	img       *image.RGBA
	presented func()
}

func newWindowCanvas(size image.Point, presented func()) *windowCanvas {
	return &windowCanvas{img: image.NewRGBA(image.Rectangle{Max: clampSize(size)}), presented: presented}
}

func (c *windowCanvas) ColorModel() color.Model { return color.RGBAModel }

func (c *windowCanvas) Bounds() image.Rectangle { return c.img.Bounds() }

func (c *windowCanvas) At(x, y int) color.Color { return c.img.At(x, y) }

func (c *windowCanvas) Set(x, y int, col color.Color) { c.img.Set(x, y, col) }

// RGBA returns the current back buffer.
func (c *windowCanvas) RGBA() *image.RGBA { return c.img }

// Present is called by the compositor once a frame is complete.
func (c *windowCanvas) Present() {
	if c.presented != nil {
		c.presented()
	}
}

// resize replaces the back buffer and reports whether the size changed.
func (c *windowCanvas) resize(size image.Point) bool {
	size = clampSize(size)
	if c.img.Bounds().Size() == size {
		return false
	}
	c.img = image.NewRGBA(image.Rectangle{Max: size})
	return true
}

func clampSize(p image.Point) image.Point {
	return image.Pt(max(p.X, 0), max(p.Y, 0))
}
