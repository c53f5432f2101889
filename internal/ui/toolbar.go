package ui

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/maskpaint/internal/theme"
)

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
	StateActive
	numStates
)

// Button represents an interactive toolbar element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [numStates]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [numStates]*image.RGBA{}
	}
}

// labelButton is a themed button with a text label.
type labelButton struct {
	label  string
	theme  *theme.Theme
	rect   image.Rectangle
	action func()
}

func (b *labelButton) Draw(dst *image.RGBA, state ButtonState) {
	bg, fg := b.theme.ButtonBackground, b.theme.ButtonText
	switch state {
	case StateHover:
		bg = b.theme.ButtonBackgroundHover
	case StatePressed, StateActive:
		bg, fg = b.theme.ButtonBackgroundActive, b.theme.ButtonTextActive
	}
	draw.Draw(dst, b.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
	drawRect(dst, b.rect, b.theme.ButtonBorder)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: basicfont.Face7x13,
		Dot: fixed.P(b.rect.Min.X+4, b.rect.Min.Y+16)}
	d.DrawString(b.label)
}

func (b *labelButton) Rect() image.Rectangle { return b.rect }

func (b *labelButton) SetRect(r image.Rectangle) { b.rect = r }

func (b *labelButton) Activate() {
	if b.action != nil {
		b.action()
	}
}

// toolbarItem pairs a button with a predicate reporting whether it shows
// the active selection.
type toolbarItem struct {
	button Button
	active func() bool
}

// toolbar is the column of buttons on the left of the window.
type toolbar struct {
	items []toolbarItem
	hover int
}

func newToolbar(s *session, th *theme.Theme) *toolbar {
	add := func(tb *toolbar, label string, action func(), active func() bool) {
		tb.items = append(tb.items, toolbarItem{
			button: &CacheButton{Button: &labelButton{label: label, theme: th, action: action}},
			active: active,
		})
	}
	tb := &toolbar{hover: -1}
	for _, a := range toolbarActions {
		add(tb, a.label, func() { s.handle(a.act) }, func() bool { return s.isActive(a.act) })
	}
	tb.layout()
	return tb
}

func (tb *toolbar) layout() {
	for i, it := range tb.items {
		y := i * buttonHeight
		it.button.SetRect(image.Rect(2, y+2, toolbarWidth-2, y+buttonHeight))
	}
}

// at returns the index of the button under p, or -1.
func (tb *toolbar) at(p image.Point) int {
	for i, it := range tb.items {
		if p.In(it.button.Rect()) {
			return i
		}
	}
	return -1
}

func (tb *toolbar) draw(dst *image.RGBA, th *theme.Theme, height int) {
	draw.Draw(dst, image.Rect(0, 0, toolbarWidth, height), &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	for i, it := range tb.items {
		state := StateDefault
		switch {
		case it.active != nil && it.active():
			state = StateActive
		case i == tb.hover:
			state = StateHover
		}
		it.button.Draw(dst, state)
	}
}

func drawRect(dst *image.RGBA, r image.Rectangle, col color.Color) {
	u := &image.Uniform{col}
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}

func sizeLabel(size float64) string { return fmt.Sprintf("size %g", size) }
