package surface

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// BlendMode selects how new pixels combine with what a surface holds.
type BlendMode int

const (
	// BlendSourceOver paints the source on top of the destination.
	BlendSourceOver BlendMode = iota
	// BlendDestinationOut removes destination coverage where the source is
	// opaque, leaving transparency behind.
	BlendDestinationOut
)

func (m BlendMode) String() string {
	switch m {
	case BlendSourceOver:
		return "source-over"
	case BlendDestinationOut:
		return "destination-out"
	default:
		return fmt.Sprintf("BlendMode(%d)", int(m))
	}
}

// blendPixel combines the premultiplied source s into the pixel at off.
func blendPixel(pix []uint8, off int, s color.RGBA, mode BlendMode) {
	inv := 255 - uint32(s.A)
	d := pix[off : off+4 : off+4]
	switch mode {
	case BlendDestinationOut:
		for i := 0; i < 4; i++ {
			d[i] = uint8((uint32(d[i])*inv + 127) / 255)
		}
	default:
		d[0] = uint8(uint32(s.R) + (uint32(d[0])*inv+127)/255)
		d[1] = uint8(uint32(s.G) + (uint32(d[1])*inv+127)/255)
		d[2] = uint8(uint32(s.B) + (uint32(d[2])*inv+127)/255)
		d[3] = uint8(uint32(s.A) + (uint32(d[3])*inv+127)/255)
	}
}

// scaleAlpha returns col with its premultiplied channels multiplied by a.
func scaleAlpha(col color.RGBA, a float64) color.RGBA {
	if a >= 1 {
		return col
	}
	if a <= 0 {
		return color.RGBA{}
	}
	f := func(v uint8) uint8 { return uint8(math.Round(float64(v) * a)) }
	return color.RGBA{f(col.R), f(col.G), f(col.B), f(col.A)}
}

// maxCoord bounds pointer-derived values so integer conversion stays defined.
const maxCoord = 1 << 24

// fillCircle blends a filled disc of radius r centred on the pixel that
// contains (cx, cy). A pixel is covered when its offset from the centre
// pixel lies within r.
func fillCircle(img *image.RGBA, cx, cy, r float64, col color.RGBA, mode BlendMode) {
	if r < 0 || math.IsNaN(r) || math.IsNaN(cx) || math.IsNaN(cy) {
		return
	}
	if math.Abs(cx) > maxCoord || math.Abs(cy) > maxCoord {
		return
	}
	r = math.Min(r, maxCoord)
	px := int(math.Floor(cx))
	py := int(math.Floor(cy))
	ri := int(math.Ceil(r))
	r2 := r * r
	b := img.Bounds().Intersect(image.Rect(px-ri, py-ri, px+ri+1, py+ri+1))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		dy := y - py
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := x - px
			if float64(dx*dx+dy*dy) > r2 {
				continue
			}
			blendPixel(img.Pix, img.PixOffset(x, y), col, mode)
		}
	}
}
