package render

import (
	"image"
	"image/color"
	"testing"
)

func squareMask(size, from, to int) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := from; y < to; y++ {
		for x := from; x < to; x++ {
			m.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	return m
}

func TestFeatherSoftensEdges(t *testing.T) {
	m := squareMask(40, 10, 30)
	out := Feather(m, 3)

	if got := out.RGBAAt(20, 20); got.A != 255 {
		t.Errorf("interior alpha = %d", got.A)
	}
	edge := out.RGBAAt(9, 20)
	if edge.A == 0 || edge.A == 255 {
		t.Errorf("edge alpha = %d, want partial", edge.A)
	}
	if edge.R > edge.A {
		t.Errorf("edge not premultiplied: %v", edge)
	}
	if got := out.RGBAAt(2, 2); got.A != 0 {
		t.Errorf("far alpha = %d", got.A)
	}
	if m.RGBAAt(9, 20).A != 0 {
		t.Fatal("input mask was modified")
	}
}

func TestFeatherZeroRadiusCopies(t *testing.T) {
	m := squareMask(8, 2, 6)
	out := Feather(m, 0)
	if out == m {
		t.Fatal("expected a copy")
	}
	for i := range m.Pix {
		if out.Pix[i] != m.Pix[i] {
			t.Fatalf("pixel byte %d changed", i)
		}
	}
	if Feather(nil, 2) != nil {
		t.Fatal("nil mask should give nil")
	}
}

func TestFeatherRebasesSubImages(t *testing.T) {
	m := squareMask(20, 0, 20).SubImage(image.Rect(5, 5, 15, 15)).(*image.RGBA)
	out := Feather(m, 2)
	if out.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	if out.RGBAAt(0, 0).A != 255 {
		t.Fatalf("corner alpha = %d", out.RGBAAt(0, 0).A)
	}
}
