// Package editor is the mask editing core. An Editor owns the surfaces for one
// image, applies brush and eraser strokes to the mask from normalized pointer
// positions, recomposites the visible canvas after every change and exports
// the image and mask for upload.
//
// An Editor is not safe for concurrent use. Hosts call it from a single event
// loop.
package editor

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/example/maskpaint/internal/export"
	"github.com/example/maskpaint/internal/geometry"
	"github.com/example/maskpaint/internal/render"
	"github.com/example/maskpaint/internal/surface"
	"github.com/example/maskpaint/internal/tool"
)

// ErrInvalidImage is returned for images with a zero width or height.
var ErrInvalidImage = surface.ErrInvalidImage

// DefaultMaskColor is painted by the brush unless WithMaskColor is used.
var DefaultMaskColor = color.RGBA{255, 255, 255, 255}

// Editor is the handle returned by Create.
type Editor struct {
	reg       *surface.Registry
	comp      *render.Compositor
	tools     *tool.Machine
	maskColor color.RGBA
	history   *history

	historySize int
	rendering   bool
}

// Option configures an Editor during Create.
type Option func(*Editor)

// WithMaskColor sets the colour the brush paints into the mask.
func WithMaskColor(c color.Color) Option {
	return func(e *Editor) { e.maskColor = color.RGBAModel.Convert(c).(color.RGBA) }
}

// WithHistorySize sets how many recent pointer samples are kept.
func WithHistorySize(n int) Option { return func(e *Editor) { e.historySize = n } }

// WithCompositor replaces the default compositor, for example to change the
// resampling filters.
func WithCompositor(c *render.Compositor) Option { return func(e *Editor) { e.comp = c } }

// Create binds an editor to canvas, loads img and renders the first frame.
// canvas is written only by Render; if it implements render.Presenter it is
// flipped after each frame.
func Create(canvas draw.Image, img image.Image, initial tool.Kind, brushSize float64, opts ...Option) (*Editor, error) {
	reg, err := surface.New(canvas, img)
	if err != nil {
		return nil, err
	}
	tools, err := tool.NewMachine(initial, brushSize)
	if err != nil {
		return nil, err
	}
	e := &Editor{
		reg:         reg,
		tools:       tools,
		maskColor:   DefaultMaskColor,
		historySize: defaultHistorySize,
	}
	for _, o := range opts {
		o(e)
	}
	if e.comp == nil {
		e.comp = render.NewCompositor(canvas)
	}
	e.history = newHistory(e.historySize)
	logger().Debug("editor created",
		"image", reg.ImageSize(), "canvas", reg.CanvasSize(), "tool", initial, "brush", brushSize)
	e.Render()
	return e, nil
}

// UpdateImage replaces the working image, clears the mask and renders. On
// error the editor keeps its previous image and mask.
func (e *Editor) UpdateImage(img image.Image) error {
	if err := e.reg.UpdateImage(img); err != nil {
		logger().Warn("update image rejected", "err", err)
		return err
	}
	e.history.reset()
	logger().Debug("image updated", "image", e.reg.ImageSize())
	e.Render()
	return nil
}

// UpdatePointer applies the active tool at a normalized canvas position and
// renders. Reserved tools and degenerate canvases leave everything as is.
func (e *Editor) UpdatePointer(nx, ny float64) error {
	layout := e.reg.Layout()
	stroke := e.tools.Plan(layout, nx, ny)
	if stroke.Op == tool.OpNone {
		return nil
	}
	mask := e.reg.Mask()
	err := mask.WithBlend(stroke.Blend, func() error {
		mask.FillCircle(stroke.X, stroke.Y, stroke.Radius, e.maskColor)
		return nil
	})
	if err != nil {
		return err
	}
	e.history.push(PointerSample{X: nx, Y: ny})
	e.Render()
	return nil
}

// SelectTool switches the active tool and brush size.
func (e *Editor) SelectTool(kind tool.Kind, brushSize float64) error {
	if err := e.tools.Select(kind, brushSize); err != nil {
		return err
	}
	logger().Debug("tool selected", "tool", kind, "brush", brushSize)
	return nil
}

// ResizeViewport must be called after the bound canvas changes size. It
// resizes the off-screen buffer and renders.
func (e *Editor) ResizeViewport() {
	e.reg.ResizeViewport()
	logger().Debug("viewport resized", "canvas", e.reg.CanvasSize())
	e.Render()
}

// Render recomposites the visible canvas. It must not be called from inside
// another Render.
func (e *Editor) Render() {
	assertNotRendering(e.rendering)
	e.rendering = true
	defer func() { e.rendering = false }()
	e.comp.Render(e.reg)
}

// ExportImages returns the working image and the mask as PNG data URLs.
func (e *Editor) ExportImages() (base, mask string, err error) {
	return export.Images(e.reg)
}

// Tool returns the active selection.
func (e *Editor) Tool() tool.Selection { return e.tools.Selection() }

// Layout returns the current canvas/image layout.
func (e *Editor) Layout() geometry.Layout { return e.reg.Layout() }

// ImageSize returns the size of the working image.
func (e *Editor) ImageSize() geometry.Size { return e.reg.ImageSize() }

// History returns recent pointer samples, oldest first.
func (e *Editor) History() []PointerSample { return e.history.samples() }

// WorkingImage returns a copy of the working image.
func (e *Editor) WorkingImage() *image.RGBA { return cloneRGBA(e.reg.Working().RGBA()) }

// MaskImage returns a copy of the mask.
func (e *Editor) MaskImage() *image.RGBA { return cloneRGBA(e.reg.Mask().RGBA()) }

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
