// Package render assembles the visible frame from the working image and the
// mask.
package render

import (
	xdraw "golang.org/x/image/draw"

	"github.com/example/maskpaint/internal/surface"
)

// MaskOpacity is the opacity the mask is shown at over the working image.
const MaskOpacity = 0.4

// Presenter is implemented by canvases that need an explicit flip after the
// frame has been copied into them, such as a window back buffer.
type Presenter interface {
	Present()
}

// Compositor renders a registry's surfaces into its visible output.
type Compositor struct {
	// ImageScaler resamples the working image into the placement. It
	// defaults to approximate bilinear filtering.
	ImageScaler xdraw.Scaler
	// MaskScaler resamples the mask. Nearest neighbour keeps mask edges hard.
	MaskScaler xdraw.Scaler
	// Presenter, when set, is flipped after the blit. It is usually the
	// canvas itself.
	Presenter Presenter
}

// NewCompositor returns a compositor with the default scalers. If canvas
// implements Presenter it is flipped after every render.
func NewCompositor(canvas any) *Compositor {
	c := &Compositor{ImageScaler: xdraw.ApproxBiLinear, MaskScaler: xdraw.NearestNeighbor}
	if p, ok := canvas.(Presenter); ok {
		c.Presenter = p
	}
	return c
}

// Render clears the off-screen buffer, draws the working image and then the
// mask at MaskOpacity into the same placement, and copies the buffer into
// the visible output in a single blit. Nothing else writes to the visible
// output, so it never shows a partly assembled frame.
func (c *Compositor) Render(reg *surface.Registry) {
	buf := reg.Buffer()
	layout := reg.Layout()
	dst := layout.Rect()

	buf.Clear()
	if !dst.Empty() {
		buf.DrawScaled(reg.Working().RGBA(), dst, c.imageScaler())
		_ = buf.WithAlpha(MaskOpacity, func() error {
			buf.DrawScaled(reg.Mask().RGBA(), dst, c.maskScaler())
			return nil
		})
	}
	reg.Visible().Blit(buf)
	if c.Presenter != nil {
		c.Presenter.Present()
	}
}

func (c *Compositor) imageScaler() xdraw.Scaler {
	if c.ImageScaler == nil {
		return xdraw.ApproxBiLinear
	}
	return c.ImageScaler
}

func (c *Compositor) maskScaler() xdraw.Scaler {
	if c.MaskScaler == nil {
		return xdraw.NearestNeighbor
	}
	return c.MaskScaler
}
