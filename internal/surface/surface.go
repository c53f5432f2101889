package surface

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/example/maskpaint/internal/geometry"
)

// Name identifies the purpose of a surface.
type Name int

const (
	// VisibleOutput is bound to the caller's canvas.
	VisibleOutput Name = iota
	// WorkingImage holds the image being edited at native resolution.
	WorkingImage
	// Mask holds the user-painted mask at the working image's resolution.
	Mask
	// OffscreenBuffer is where frames are assembled before being shown.
	OffscreenBuffer
)

var names = [...]string{
	VisibleOutput:   "visible-output",
	WorkingImage:    "working-image",
	Mask:            "mask",
	OffscreenBuffer: "offscreen-buffer",
}

func (n Name) String() string {
	if n >= 0 && int(n) < len(names) {
		return names[n]
	}
	return fmt.Sprintf("Name(%d)", int(n))
}

// Surface is a named raster drawing target. Internal surfaces own an RGBA
// backing store; the visible output writes through to a bound canvas.
type Surface struct {
	name  Name
	img   *image.RGBA
	bound draw.Image
	blend BlendMode
	alpha float64

	scratch *image.RGBA
}

func newOwned(name Name, w, h int) *Surface {
	return &Surface{name: name, img: image.NewRGBA(image.Rect(0, 0, w, h)), alpha: 1}
}

func newBound(name Name, canvas draw.Image) *Surface {
	return &Surface{name: name, bound: canvas, alpha: 1}
}

// Name returns the purpose of the surface.
func (s *Surface) Name() Name { return s.name }

// Bounds returns the pixel bounds of the backing store.
func (s *Surface) Bounds() image.Rectangle {
	if s.bound != nil {
		return s.bound.Bounds()
	}
	return s.img.Bounds()
}

// Size returns the pixel dimensions of the surface.
func (s *Surface) Size() geometry.Size { return geometry.SizeOf(s.Bounds()) }

// RGBA exposes the owned backing store. It is nil for the visible output.
func (s *Surface) RGBA() *image.RGBA { return s.img }

// Blend returns the blend mode currently applied to drawing operations.
func (s *Surface) Blend() BlendMode { return s.blend }

// Alpha returns the global opacity currently applied to drawing operations.
func (s *Surface) Alpha() float64 { return s.alpha }

// WithBlend runs fn with mode installed and restores the previous mode on
// every exit path, including a panic inside fn.
func (s *Surface) WithBlend(mode BlendMode, fn func() error) error {
	prev := s.blend
	s.blend = mode
	defer func() { s.blend = prev }()
	return fn()
}

// WithAlpha runs fn with the global opacity set to a and restores the
// previous opacity on every exit path.
func (s *Surface) WithAlpha(a float64, fn func() error) error {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	prev := s.alpha
	s.alpha = a
	defer func() { s.alpha = prev }()
	return fn()
}

// Clear makes every pixel fully transparent.
func (s *Surface) Clear() {
	if s.img == nil {
		return
	}
	clear(s.img.Pix)
}

// FillCircle draws a filled disc using the current blend mode and alpha.
func (s *Surface) FillCircle(cx, cy, r float64, col color.Color) {
	if s.img == nil {
		return
	}
	src := color.RGBAModel.Convert(col).(color.RGBA)
	fillCircle(s.img, cx, cy, r, scaleAlpha(src, s.alpha), s.blend)
}

// DrawScaled scales src into dr, composited over the current contents at
// the current alpha.
func (s *Surface) DrawScaled(src *image.RGBA, dr image.Rectangle, scaler xdraw.Scaler) {
	if s.img == nil || src == nil || dr.Empty() || src.Bounds().Empty() {
		return
	}
	if s.alpha <= 0 {
		return
	}
	var m image.Image
	if s.alpha < 1 {
		m = image.NewUniform(color.Alpha{A: uint8(s.alpha*255 + 0.5)})
	}
	if dr.Size() == src.Bounds().Size() {
		draw.DrawMask(s.img, dr, src, src.Bounds().Min, m, image.Point{}, draw.Over)
		return
	}
	if m == nil {
		scaler.Scale(s.img, dr, src, src.Bounds(), draw.Over, nil)
		return
	}
	tmp := s.scratchFor(dr.Size())
	scaler.Scale(tmp, tmp.Bounds(), src, src.Bounds(), draw.Src, nil)
	draw.DrawMask(s.img, dr, tmp, image.Point{}, m, image.Point{}, draw.Over)
}

// scratchFor returns a reusable zero-origin buffer of the given size.
func (s *Surface) scratchFor(sz image.Point) *image.RGBA {
	if s.scratch == nil || s.scratch.Bounds().Size() != sz {
		s.scratch = image.NewRGBA(image.Rectangle{Max: sz})
	}
	return s.scratch
}

// Blit replaces the whole surface with src in a single copy. src is read
// from its origin; areas outside either surface are left alone.
func (s *Surface) Blit(src *Surface) {
	if src == nil || src.img == nil {
		return
	}
	dst := s.target()
	draw.Draw(dst, dst.Bounds(), src.img, src.img.Bounds().Min, draw.Src)
}

// rgbaBacked is implemented by canvases that wrap an RGBA back buffer, so
// blits can take the draw package's fast path.
type rgbaBacked interface {
	RGBA() *image.RGBA
}

func (s *Surface) target() draw.Image {
	if rb, ok := s.bound.(rgbaBacked); ok {
		if img := rb.RGBA(); img != nil {
			return img
		}
	}
	if s.bound != nil {
		return s.bound
	}
	return s.img
}

func (s *Surface) resize(sz geometry.Size) {
	if sz.W < 0 {
		sz.W = 0
	}
	if sz.H < 0 {
		sz.H = 0
	}
	if s.img != nil && s.img.Bounds().Size() == image.Pt(sz.W, sz.H) {
		return
	}
	s.img = image.NewRGBA(image.Rect(0, 0, sz.W, sz.H))
}
