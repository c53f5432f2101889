package render

import (
	"image"
	"image/draw"
)

// Feather returns a copy of mask with its edges softened by a separable box
// blur of the given radius in image pixels. Colour and alpha are blurred
// together so the result stays premultiplied. A radius of zero or less
// returns an unmodified copy.
func Feather(mask *image.RGBA, radius int) *image.RGBA {
	if mask == nil {
		return nil
	}
	b := mask.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), mask, b.Min, draw.Src)
	w, h := b.Dx(), b.Dy()
	if radius <= 0 || w == 0 || h == 0 {
		return out
	}

	prefix := make([]int, max(w, h)+1)
	for c := 0; c < 4; c++ {
		for y := 0; y < h; y++ {
			blurLine(out.Pix, y*out.Stride+c, w, 4, radius, prefix)
		}
		for x := 0; x < w; x++ {
			blurLine(out.Pix, x*4+c, h, out.Stride, radius, prefix)
		}
	}
	return out
}

// blurLine box-blurs n samples of pix starting at start and step apart, in
// place. Windows are clipped at the ends of the line.
func blurLine(pix []uint8, start, n, step, radius int, prefix []int) {
	prefix[0] = 0
	for i := 0; i < n; i++ {
		prefix[i+1] = prefix[i] + int(pix[start+i*step])
	}
	for i := 0; i < n; i++ {
		i0 := max(i-radius, 0)
		i1 := min(i+radius, n-1)
		pix[start+i*step] = uint8((prefix[i1+1] - prefix[i0]) / (i1 - i0 + 1))
	}
}
