// Package surface owns the fixed set of drawing surfaces used by the editor:
// the visible output bound to the host canvas, the working image, the mask
// and an off-screen buffer for assembling frames.
package surface

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/example/maskpaint/internal/geometry"
)

// ErrInvalidImage is returned for a missing image or one with a zero
// dimension.
var ErrInvalidImage = errors.New("invalid image")

// Names lists every surface in a stable order.
func Names() []Name {
	return []Name{VisibleOutput, WorkingImage, Mask, OffscreenBuffer}
}

// Registry holds one surface per Name. The mapping is built once in New and
// cannot be changed afterwards; surface contents remain mutable.
type Registry struct {
	surfaces map[Name]*Surface
}

// New creates all surfaces, binds the visible output to canvas and loads img
// into the working image. The mask starts out empty.
func New(canvas draw.Image, img image.Image) (*Registry, error) {
	if canvas == nil {
		return nil, errors.New("surface: nil canvas")
	}
	if err := validate(img); err != nil {
		return nil, err
	}
	r := &Registry{surfaces: map[Name]*Surface{
		VisibleOutput:   newBound(VisibleOutput, canvas),
		WorkingImage:    newOwned(WorkingImage, 0, 0),
		Mask:            newOwned(Mask, 0, 0),
		OffscreenBuffer: newOwned(OffscreenBuffer, 0, 0),
	}}
	r.load(img)
	return r, nil
}

func validate(img image.Image) error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidImage, b.Dx(), b.Dy())
	}
	return nil
}

// load fills fresh working and mask stores and swaps them in together.
func (r *Registry) load(img image.Image) {
	b := img.Bounds()
	working := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(working, working.Bounds(), img, b.Min, draw.Src)
	mask := image.NewRGBA(working.Bounds())

	r.surfaces[WorkingImage].img = working
	r.surfaces[Mask].img = mask
	r.ResizeViewport()
}

// Get returns the surface with the given name, or nil for an unknown name.
func (r *Registry) Get(n Name) *Surface { return r.surfaces[n] }

// Visible returns the surface bound to the host canvas.
func (r *Registry) Visible() *Surface { return r.surfaces[VisibleOutput] }

// Working returns the working image surface.
func (r *Registry) Working() *Surface { return r.surfaces[WorkingImage] }

// Mask returns the mask surface.
func (r *Registry) Mask() *Surface { return r.surfaces[Mask] }

// Buffer returns the off-screen compositing buffer.
func (r *Registry) Buffer() *Surface { return r.surfaces[OffscreenBuffer] }

// ImageSize returns the shared size of the working image and mask.
func (r *Registry) ImageSize() geometry.Size { return r.Working().Size() }

// CanvasSize returns the current size of the bound canvas.
func (r *Registry) CanvasSize() geometry.Size { return r.Visible().Size() }

// Layout snapshots the current canvas and image sizes.
func (r *Registry) Layout() geometry.Layout {
	return geometry.Resolve(r.CanvasSize(), r.ImageSize())
}

// UpdateImage replaces the working image with img and clears the mask. On
// error nothing changes.
func (r *Registry) UpdateImage(img image.Image) error {
	if err := validate(img); err != nil {
		return err
	}
	r.load(img)
	return nil
}

// ResizeViewport matches the off-screen buffer to the canvas's current size.
func (r *Registry) ResizeViewport() {
	r.Buffer().resize(r.CanvasSize())
}
