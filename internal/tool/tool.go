// Package tool tracks the active editing tool and decides what each pointer
// update does to the mask.
package tool

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/maskpaint/internal/geometry"
	"github.com/example/maskpaint/internal/surface"
)

// Kind is one of a closed set of tools. Only Brush and Eraser draw; the rest
// are reserved and ignore pointer updates.
type Kind int

const (
	Brush Kind = iota
	Eraser
	Wand
	RectangleSelect
	Lasso
	ColorPicker
	PaintBucket
	Pan
	numKinds
)

// ErrUnknownTool is returned when selecting a value outside the Kind set.
var ErrUnknownTool = errors.New("unknown tool")

var kindNames = [numKinds]string{
	Brush:           "brush",
	Eraser:          "eraser",
	Wand:            "wand",
	RectangleSelect: "rectangle",
	Lasso:           "lasso",
	ColorPicker:     "picker",
	PaintBucket:     "bucket",
	Pan:             "pan",
}

// Kinds lists every tool in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

// Valid reports whether k is a member of the tool set.
func (k Kind) Valid() bool { return k >= 0 && k < numKinds }

// Implemented reports whether pointer updates with k change the mask.
func (k Kind) Implemented() bool { return k == Brush || k == Eraser }

func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts the names produced by String, case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownTool, s)
}

// Selection is the active tool and its brush radius in canvas pixels.
type Selection struct {
	Kind      Kind
	BrushSize float64
}

// Op is the drawing operation chosen for a pointer update.
type Op int

const (
	OpNone Op = iota
	OpFillCircle
)

// Stroke describes one mask mutation in image-space coordinates.
type Stroke struct {
	Op     Op
	Blend  surface.BlendMode
	X, Y   float64
	Radius float64
}

// Machine holds the current selection.
type Machine struct {
	sel Selection
}

// NewMachine starts with the given selection.
func NewMachine(kind Kind, brushSize float64) (*Machine, error) {
	m := &Machine{}
	if err := m.Select(kind, brushSize); err != nil {
		return nil, err
	}
	return m, nil
}

// Select replaces the current selection. Only membership of kind is checked.
func (m *Machine) Select(kind Kind, brushSize float64) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownTool, int(kind))
	}
	m.sel = Selection{Kind: kind, BrushSize: brushSize}
	return nil
}

// Selection returns the current selection.
func (m *Machine) Selection() Selection { return m.sel }

// Plan resolves a normalized pointer position through layout and returns the
// stroke to apply. Centre and radius are scaled by the same layout so the
// stroke keeps its on-screen width whatever the aspect ratios.
func (m *Machine) Plan(layout geometry.Layout, nx, ny float64) Stroke {
	var blend surface.BlendMode
	switch m.sel.Kind {
	case Brush:
		blend = surface.BlendSourceOver
	case Eraser:
		blend = surface.BlendDestinationOut
	default:
		return Stroke{}
	}
	x, y, ok := layout.ToImage(nx, ny)
	if !ok {
		return Stroke{}
	}
	return Stroke{
		Op:     OpFillCircle,
		Blend:  blend,
		X:      x,
		Y:      y,
		Radius: layout.ImageRadius(m.sel.BrushSize),
	}
}
