// Package script reads YAML stroke scripts so masks can be painted without
// a window.
//
// A script looks like:
//
//	canvas:
//	  width: 400
//	  height: 300
//	steps:
//	  - tool: brush
//	    size: 16
//	    points: [[0.25, 0.5], [0.75, 0.5]]
//	  - tool: eraser
//	    size: 4
//	    points: [[0.5, 0.5]]
//
// Points are normalized canvas coordinates in [0,1]. Consecutive points in
// a step are joined by intermediate samples so a step paints a continuous
// line.
package script

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/example/maskpaint/internal/geometry"
	"github.com/example/maskpaint/internal/tool"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid script")

// maxSegmentSamples caps the samples interpolated between two points.
const maxSegmentSamples = 4096

// Script is a parsed stroke script.
type Script struct {
	Canvas Canvas `yaml:"canvas,omitempty"`
	Steps  []Step `yaml:"steps"`
}

// Canvas is the viewport size the points are expressed against. A zero
// size means the caller picks one.
type Canvas struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
}

// Size returns the canvas as a geometry size.
func (c Canvas) Size() geometry.Size { return geometry.Size{W: c.Width, H: c.Height} }

// Step is one tool selection followed by a polyline of pointer samples.
type Step struct {
	Tool   string       `yaml:"tool"`
	Size   float64      `yaml:"size"`
	Points [][2]float64 `yaml:"points"`
	// Joined disables interpolation between points when set to false.
	Joined *bool `yaml:"joined,omitempty"`

	kind tool.Kind
}

// Target is the editor surface a script drives.
type Target interface {
	SelectTool(kind tool.Kind, brushSize float64) error
	UpdatePointer(nx, ny float64) error
	Layout() geometry.Layout
}

// Load reads and validates the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// New builds a validated script from steps, for callers that assemble
// strokes themselves instead of reading YAML.
func New(canvas Canvas, steps ...Step) (*Script, error) {
	s := &Script{Canvas: canvas, Steps: steps}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Script) validate() error {
	if s.Canvas.Width < 0 || s.Canvas.Height < 0 {
		return fmt.Errorf("%w: negative canvas %dx%d", ErrInvalid, s.Canvas.Width, s.Canvas.Height)
	}
	for i := range s.Steps {
		st := &s.Steps[i]
		k, err := tool.ParseKind(st.Tool)
		if err != nil {
			return fmt.Errorf("%w: step %d: %w", ErrInvalid, i+1, err)
		}
		st.kind = k
		if st.Size < 0 || math.IsNaN(st.Size) || math.IsInf(st.Size, 0) {
			return fmt.Errorf("%w: step %d: bad size %v", ErrInvalid, i+1, st.Size)
		}
		for j, p := range st.Points {
			if !finite(p[0]) || !finite(p[1]) {
				return fmt.Errorf("%w: step %d point %d is not finite", ErrInvalid, i+1, j+1)
			}
			if p[0] < 0 || p[0] > 1 || p[1] < 0 || p[1] > 1 {
				return fmt.Errorf("%w: step %d point %d (%v, %v) is outside [0,1]", ErrInvalid, i+1, j+1, p[0], p[1])
			}
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Apply runs every step against t in order. It returns the number of
// pointer samples sent.
func (s *Script) Apply(t Target) (int, error) {
	n := 0
	for i, st := range s.Steps {
		if err := t.SelectTool(st.kind, st.Size); err != nil {
			return n, fmt.Errorf("step %d: %w", i+1, err)
		}
		for _, p := range st.samples(t.Layout()) {
			if err := t.UpdatePointer(p[0], p[1]); err != nil {
				return n, fmt.Errorf("step %d: %w", i+1, err)
			}
			n++
		}
	}
	return n, nil
}

// samples expands the step's points so neighbouring samples are no further
// apart on the canvas than half the brush size, up to maxSegmentSamples per
// segment.
func (st Step) samples(l geometry.Layout) [][2]float64 {
	if len(st.Points) == 0 {
		return nil
	}
	out := [][2]float64{st.Points[0]}
	if st.Joined != nil && !*st.Joined {
		return append(out, st.Points[1:]...)
	}
	spacing := math.Max(st.Size/2, 1)
	cw, ch := float64(l.Canvas.W), float64(l.Canvas.H)
	for i := 1; i < len(st.Points); i++ {
		a, b := st.Points[i-1], st.Points[i]
		dist := math.Hypot((b[0]-a[0])*cw, (b[1]-a[1])*ch)
		steps := int(math.Min(math.Ceil(dist/spacing), maxSegmentSamples))
		for k := 1; k < steps; k++ {
			f := float64(k) / float64(steps)
			out = append(out, [2]float64{a[0] + (b[0]-a[0])*f, a[1] + (b[1]-a[1])*f})
		}
		out = append(out, b)
	}
	return out
}
