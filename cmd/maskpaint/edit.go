package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/example/maskpaint/internal/config"
	"github.com/example/maskpaint/internal/ui"
	"github.com/example/maskpaint/internal/upload"
)

var runWindowFn = func(app *ui.App) error { return app.Run() }

// editCmd opens the mask editor window.
type editCmd struct {
	src      sourceFlags
	canvas   string
	watch    bool
	saveDir  string
	endpoint string
	*root
	fs *flag.FlagSet
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	e := &editCmd{root: r.subcommand("edit"), fs: fs}
	fs.Usage = usageFunc(e)
	e.src.register(fs)
	fs.StringVar(&e.canvas, "canvas", "", "canvas size as WxH (default from config)")
	fs.BoolVar(&e.watch, "watch", false, "reload the image when -file changes on disk")
	fs.StringVar(&e.saveDir, "save-dir", "", "directory for base.png and mask.png (default from config)")
	fs.StringVar(&e.endpoint, "endpoint", "", "generation service URL (default from config)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := e.src.validate(); err != nil {
		return nil, &UsageError{of: e, msg: err.Error()}
	}
	if e.watch && e.src.file == "" {
		return nil, &UsageError{of: e, msg: "-watch requires -file"}
	}
	return e, nil
}

func (e *editCmd) Run() error {
	cfg := e.config
	img, label, err := e.src.load()
	if err != nil {
		return err
	}
	canvasSpec := e.canvas
	if canvasSpec == "" {
		canvasSpec = cfg.Editor.Canvas
	}
	size, err := config.ParseSize(canvasSpec)
	if err != nil {
		return err
	}
	kind, err := cfg.Editor.ToolKind()
	if err != nil {
		return err
	}
	maskColor, err := cfg.Editor.MaskRGBA()
	if err != nil {
		return err
	}
	saveDir := firstNonEmpty(e.saveDir, cfg.SaveDir, ".")

	opts := []ui.Option{
		ui.WithTitle(strings.Join([]string{ui.ProgramTitle, label}, " - ")),
		ui.WithCanvasSize(size.W, size.H),
		ui.WithTool(kind, cfg.Editor.BrushSize),
		ui.WithMaskColor(maskColor),
		ui.WithSaveDir(saveDir),
		ui.WithTheme(e.activeTheme),
	}
	if e.notifier != nil {
		opts = append(opts, ui.WithNotifier(e.notifier))
	}
	if e.watch {
		opts = append(opts, ui.WithWatch(e.src.file))
	}
	if endpoint := firstNonEmpty(e.endpoint, cfg.Upload.Endpoint); endpoint != "" {
		client, err := upload.NewClient(endpoint, upload.WithPollInterval(cfg.Upload.PollInterval))
		if err != nil {
			return fmt.Errorf("upload endpoint: %w", err)
		}
		opts = append(opts, ui.WithGenerator(client, cfg.Upload.Timeout))
	}
	return runWindowFn(ui.New(img, opts...))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
