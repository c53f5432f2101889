package main

import (
	"flag"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/example/maskpaint/internal/config"
	"github.com/example/maskpaint/internal/editor"
	"github.com/example/maskpaint/internal/export"
	"github.com/example/maskpaint/internal/geometry"
	"github.com/example/maskpaint/internal/imageio"
	"github.com/example/maskpaint/internal/render"
	"github.com/example/maskpaint/internal/script"
)

// maskCmd paints a mask without opening a window, from a YAML script or
// from points given on the command line.
type maskCmd struct {
	src        sourceFlags
	canvas     string
	scriptPath string
	tool       string
	size       float64
	baseOut    string
	maskOut    string
	dataURL    bool
	feather    int
	points     [][2]float64
	*root
	fs *flag.FlagSet
}

func (m *maskCmd) FlagSet() *flag.FlagSet {
	return m.fs
}

func parseMaskCmd(args []string, r *root) (*maskCmd, error) {
	fs := flag.NewFlagSet("mask", flag.ExitOnError)
	m := &maskCmd{root: r.subcommand("mask"), fs: fs}
	fs.Usage = usageFunc(m)
	m.src.register(fs)
	fs.StringVar(&m.canvas, "canvas", "", "canvas size as WxH the points refer to (default from script or config)")
	fs.StringVar(&m.scriptPath, "script", "", "YAML stroke script")
	fs.StringVar(&m.tool, "tool", "brush", "tool for points given as arguments")
	fs.Float64Var(&m.size, "size", 0, "brush size in canvas pixels for points given as arguments (default from config)")
	fs.StringVar(&m.baseOut, "base-out", "", "write the working image PNG here")
	fs.StringVar(&m.maskOut, "mask-out", "", "write the mask PNG here")
	fs.BoolVar(&m.dataURL, "data-url", false, "print the image and mask as data URLs")
	fs.IntVar(&m.feather, "feather", 0, "soften mask edges by this many image pixels")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := m.src.validate(); err != nil {
		return nil, &UsageError{of: m, msg: err.Error()}
	}
	for _, arg := range fs.Args() {
		p, err := parsePoint(arg)
		if err != nil {
			return nil, &UsageError{of: m, msg: err.Error()}
		}
		m.points = append(m.points, p)
	}
	if m.scriptPath != "" && len(m.points) > 0 {
		return nil, &UsageError{of: m, msg: "points cannot be combined with -script"}
	}
	if m.baseOut == "" && m.maskOut == "" && !m.dataURL {
		return nil, &UsageError{of: m, msg: "nothing to write: use -base-out, -mask-out or -data-url"}
	}
	return m, nil
}

// parsePoint reads a normalized canvas position written as "x,y".
func parsePoint(s string) ([2]float64, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return [2]float64{}, fmt.Errorf("invalid point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return [2]float64{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return [2]float64{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	if x < 0 || x > 1 || y < 0 || y > 1 {
		return [2]float64{}, fmt.Errorf("invalid point %q: coordinates must be in [0,1]", s)
	}
	return [2]float64{x, y}, nil
}

func (m *maskCmd) loadScript() (*script.Script, error) {
	if m.scriptPath != "" {
		return script.Load(m.scriptPath)
	}
	size := m.size
	if size <= 0 {
		size = m.config.Editor.BrushSize
	}
	return script.New(script.Canvas{}, script.Step{Tool: m.tool, Size: size, Points: m.points})
}

func (m *maskCmd) canvasSize(s *script.Script) (geometry.Size, error) {
	if m.canvas != "" {
		return config.ParseSize(m.canvas)
	}
	if sz := s.Canvas.Size(); !sz.Empty() {
		return sz, nil
	}
	return m.config.Editor.CanvasSize()
}

func (m *maskCmd) Run() error {
	s, err := m.loadScript()
	if err != nil {
		return err
	}
	img, _, err := m.src.load()
	if err != nil {
		return err
	}
	size, err := m.canvasSize(s)
	if err != nil {
		return err
	}
	maskColor, err := m.config.Editor.MaskRGBA()
	if err != nil {
		return err
	}
	kind, err := m.config.Editor.ToolKind()
	if err != nil {
		return err
	}

	canvas := image.NewRGBA(image.Rect(0, 0, size.W, size.H))
	ed, err := editor.Create(canvas, img, kind, m.config.Editor.BrushSize, editor.WithMaskColor(maskColor))
	if err != nil {
		return err
	}
	n, err := s.Apply(ed)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.stderr, "applied %d samples on a %dx%d canvas\n", n, size.W, size.H)

	maskImg := render.Feather(ed.MaskImage(), m.feather)
	if m.baseOut != "" {
		path, err := imageio.SavePNG(m.baseOut, ed.WorkingImage())
		if err != nil {
			return err
		}
		m.notifySave(path)
	}
	if m.maskOut != "" {
		path, err := imageio.SavePNG(m.maskOut, maskImg)
		if err != nil {
			return err
		}
		m.notifySave(path)
	}
	if m.dataURL {
		base, _, err := ed.ExportImages()
		if err != nil {
			return err
		}
		mask, err := export.Encode(maskImg)
		if err != nil {
			return err
		}
		fmt.Fprintln(m.stdout, base)
		fmt.Fprintln(m.stdout, mask)
		m.notifyExport("image and mask data URLs")
	}
	return nil
}
