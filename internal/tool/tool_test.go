package tool

import (
	"errors"
	"testing"

	"github.com/example/maskpaint/internal/geometry"
	"github.com/example/maskpaint/internal/surface"
)

func TestPlanBrushAndEraser(t *testing.T) {
	layout := geometry.Resolve(geometry.Size{W: 100, H: 100}, geometry.Size{W: 400, H: 200})
	m, err := NewMachine(Brush, 5)
	if err != nil {
		t.Fatal(err)
	}
	s := m.Plan(layout, 0.5, 0.5)
	if s.Op != OpFillCircle || s.Blend != surface.BlendSourceOver {
		t.Fatalf("brush stroke %+v", s)
	}
	if s.X != 200 || s.Y != 100 {
		t.Fatalf("centre (%v,%v), want (200,100)", s.X, s.Y)
	}
	if s.Radius != 20 {
		t.Fatalf("radius %v, want 20", s.Radius)
	}

	if err := m.Select(Eraser, 5); err != nil {
		t.Fatal(err)
	}
	s = m.Plan(layout, 0.5, 0.5)
	if s.Op != OpFillCircle || s.Blend != surface.BlendDestinationOut {
		t.Fatalf("eraser stroke %+v", s)
	}
}

func TestPlanReservedToolsDoNothing(t *testing.T) {
	layout := geometry.Resolve(geometry.Size{W: 10, H: 10}, geometry.Size{W: 10, H: 10})
	for _, k := range Kinds() {
		if k.Implemented() {
			continue
		}
		m, err := NewMachine(k, 3)
		if err != nil {
			t.Fatalf("%v: %v", k, err)
		}
		if s := m.Plan(layout, 0.5, 0.5); s.Op != OpNone {
			t.Fatalf("%v planned %+v", k, s)
		}
	}
}

func TestPlanDegenerateLayout(t *testing.T) {
	m, _ := NewMachine(Brush, 3)
	layout := geometry.Resolve(geometry.Size{W: 0, H: 10}, geometry.Size{W: 10, H: 10})
	if s := m.Plan(layout, 0.5, 0.5); s.Op != OpNone {
		t.Fatalf("expected no-op, got %+v", s)
	}
}

func TestSelectRejectsUnknownKind(t *testing.T) {
	m, _ := NewMachine(Brush, 3)
	if err := m.Select(Kind(99), 3); !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
	if m.Selection().Kind != Brush {
		t.Fatal("selection changed on error")
	}
	if err := m.Select(Pan, 0); err != nil {
		t.Fatalf("reserved tools must be selectable: %v", err)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(" " + k.String() + " ")
		if err != nil || got != k {
			t.Fatalf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("chisel"); !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}

func TestEnsureSize(t *testing.T) {
	idx := EnsureSize(12)
	if SizeAt(idx) != 12 {
		t.Fatalf("SizeAt(%d) = %v", idx, SizeAt(idx))
	}
	if again := EnsureSize(12); again != idx {
		t.Fatalf("EnsureSize not idempotent: %d vs %d", again, idx)
	}
	if SizeAt(-5) != Sizes()[0] {
		t.Fatal("negative index should clamp to first preset")
	}
}
