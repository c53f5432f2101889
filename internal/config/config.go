package config

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/example/maskpaint/internal/geometry"
	"github.com/example/maskpaint/internal/theme"
	"github.com/example/maskpaint/internal/tool"
)

// Editor holds the defaults the editor window and headless commands start
// with.
type Editor struct {
	Tool      string
	BrushSize float64
	MaskColor string
	Canvas    string // WxH of the window canvas
}

// Upload holds the generation service settings.
type Upload struct {
	Endpoint     string
	PollInterval time.Duration
	Timeout      time.Duration
}

// Notify holds notification settings.
type Notify struct {
	Export   bool
	Save     bool
	Generate bool
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	Editor  Editor
	Upload  Upload
	Notify  Notify
	Themes  map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // Default to empty to allow fallback to Env/Default
		Editor: Editor{
			Tool:      tool.Brush.String(),
			BrushSize: tool.SizeAt(tool.DefaultSizeIndex),
			MaskColor: "#FFFFFF",
			Canvas:    "1024x768",
		},
		Upload: Upload{
			PollInterval: 500 * time.Millisecond,
			Timeout:      5 * time.Minute,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// ToolKind parses the configured tool name.
func (e Editor) ToolKind() (tool.Kind, error) { return tool.ParseKind(e.Tool) }

// MaskRGBA parses the configured mask color.
func (e Editor) MaskRGBA() (color.RGBA, error) { return theme.ParseColor(e.MaskColor) }

// CanvasSize parses the configured canvas size.
func (e Editor) CanvasSize() (geometry.Size, error) { return ParseSize(e.Canvas) }

// ParseSize reads a WxH size such as "800x600".
func ParseSize(s string) (geometry.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return geometry.Size{}, fmt.Errorf("size %q: expected WxH", s)
	}
	wi, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return geometry.Size{}, fmt.Errorf("size %q: width: %w", s, err)
	}
	hi, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return geometry.Size{}, fmt.Errorf("size %q: height: %w", s, err)
	}
	if wi <= 0 || hi <= 0 {
		return geometry.Size{}, fmt.Errorf("size %q: dimensions must be positive", s)
	}
	return geometry.Size{W: wi, H: hi}, nil
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[editor]\n")
	fmt.Fprintf(&sb, "tool = %s\n", c.Editor.Tool)
	fmt.Fprintf(&sb, "brush_size = %s\n", strconv.FormatFloat(c.Editor.BrushSize, 'g', -1, 64))
	fmt.Fprintf(&sb, "mask_color = %s\n", c.Editor.MaskColor)
	fmt.Fprintf(&sb, "canvas = %s\n", c.Editor.Canvas)
	sb.WriteString("\n")

	sb.WriteString("[upload]\n")
	if c.Upload.Endpoint != "" {
		fmt.Fprintf(&sb, "endpoint = %s\n", c.Upload.Endpoint)
	}
	fmt.Fprintf(&sb, "poll_interval = %s\n", c.Upload.PollInterval)
	fmt.Fprintf(&sb, "timeout = %s\n", c.Upload.Timeout)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "generate = %v\n", c.Notify.Generate)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		sb.WriteString(c.Themes[name].Format())
		sb.WriteString("\n")
	}

	return sb.String()
}
