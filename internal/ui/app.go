// Package ui hosts the mask editor in a desktop window.
package ui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/maskpaint/internal/editor"
	"github.com/example/maskpaint/internal/imageio"
	"github.com/example/maskpaint/internal/theme"
	"github.com/example/maskpaint/internal/tool"
	"github.com/example/maskpaint/internal/watch"
)

// ProgramTitle is the window title prefix.
const ProgramTitle = "maskpaint"

// App holds the configuration of one editor window.
type App struct {
	Image      image.Image
	Title      string
	CanvasSize image.Point
	Tool       tool.Kind
	BrushSize  float64
	MaskColor  color.Color
	SaveDir    string
	Theme      *theme.Theme
	WatchPath  string
	Generator  Generator
	Timeout    time.Duration
	Notifier   Notifier

	err error
}

// Option modifies an App during creation.
type Option func(*App)

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *App) { a.Title = title } }

// WithCanvasSize sets the initial size of the canvas area in pixels.
func WithCanvasSize(w, h int) Option { return func(a *App) { a.CanvasSize = image.Pt(w, h) } }

// WithTool sets the initial tool and brush size.
func WithTool(kind tool.Kind, brushSize float64) Option {
	return func(a *App) { a.Tool, a.BrushSize = kind, brushSize }
}

// WithMaskColor sets the colour the brush paints.
func WithMaskColor(c color.Color) Option { return func(a *App) { a.MaskColor = c } }

// WithSaveDir sets where the save action writes base.png and mask.png.
func WithSaveDir(dir string) Option { return func(a *App) { a.SaveDir = dir } }

// WithTheme sets the window colours.
func WithTheme(t *theme.Theme) Option { return func(a *App) { a.Theme = t } }

// WithWatch reloads the working image whenever path changes on disk.
func WithWatch(path string) Option { return func(a *App) { a.WatchPath = path } }

// WithGenerator enables the generate action. timeout bounds each job.
func WithGenerator(g Generator, timeout time.Duration) Option {
	return func(a *App) { a.Generator, a.Timeout = g, timeout }
}

// WithNotifier sends desktop notifications for save, copy and generate.
func WithNotifier(n Notifier) Option { return func(a *App) { a.Notifier = n } }

// New creates an App showing img.
func New(img image.Image, opts ...Option) *App {
	a := &App{
		Image:      img,
		Title:      ProgramTitle,
		CanvasSize: image.Pt(1024, 768),
		Tool:       tool.Brush,
		BrushSize:  tool.SizeAt(tool.DefaultSizeIndex),
		MaskColor:  editor.DefaultMaskColor,
		SaveDir:    ".",
	}
	for _, o := range opts {
		o(a)
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	return a
}

// Run executes the UI loop using shiny's driver and returns once the
// window closes.
func (a *App) Run() error {
	driver.Main(a.Main)
	return a.err
}

// Main runs the window on an existing screen.
func (a *App) Main(s screen.Screen) {
	fitToolbar()
	win := a.CanvasSize.Add(image.Pt(toolbarWidth, statusHeight))
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: win.X, Height: win.Y, Title: a.Title})
	if err != nil {
		a.err = fmt.Errorf("new window: %w", err)
		return
	}
	defer w.Release()

	canvas := newWindowCanvas(canvasRect(win).Size(), func() { w.Send(paint.Event{}) })
	ed, err := editor.Create(canvas, a.Image, a.Tool, a.BrushSize, editor.WithMaskColor(a.MaskColor))
	if err != nil {
		a.err = err
		return
	}
	sess := &session{
		ed:       ed,
		sizeIdx:  tool.EnsureSize(a.BrushSize),
		saveDir:  a.SaveDir,
		gen:      a.Generator,
		timeout:  a.Timeout,
		notifier: a.Notifier,
		post:     w.Send,
		status:   fmt.Sprintf("%s, %s", a.Tool, sizeLabel(a.BrushSize)),
	}
	defer sess.close()
	tb := newToolbar(sess, a.Theme)

	if a.WatchPath != "" {
		stop, err := a.watchSource(w)
		if err != nil {
			log.Printf("watch: %v", err)
		} else {
			defer stop()
		}
	}

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			win = e.Size()
			if canvas.resize(canvasRect(win).Size()) {
				ed.ResizeViewport()
			} else {
				w.Send(paint.Event{})
			}
		case paint.Event:
			a.paint(s, w, frameState{size: win, canvas: canvas.RGBA(), toolbar: tb, theme: a.Theme, status: sess.status})
		case mouse.Event:
			p := image.Pt(int(e.X), int(e.Y))
			if !sess.painting && p.X < toolbarWidth {
				i := tb.at(p)
				if i >= 0 && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
					tb.items[i].button.Activate()
				}
				if i != tb.hover || e.Direction == mouse.DirPress {
					tb.hover = i
					w.Send(paint.Event{})
				}
				break
			}
			if tb.hover != -1 {
				tb.hover = -1
				w.Send(paint.Event{})
			}
			sess.pointer(e, canvasRect(win))
		case key.Event:
			if act := keyAction(e); act != actNone {
				sess.handle(act)
				w.Send(paint.Event{})
			}
		case generateProgress:
			sess.progress(e)
			w.Send(paint.Event{})
		case generateDone:
			sess.generated(e)
			w.Send(paint.Event{})
		case sourceChanged:
			sess.sourceChanged(e)
			w.Send(paint.Event{})
		}
		if sess.quit {
			return
		}
	}
}

func (a *App) watchSource(w screen.Window) (func(), error) {
	f, err := watch.NewFile(a.WatchPath, watch.DefaultDelay)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	go f.Run(ctx, func(path string) {
		img, err := imageio.Load(path)
		w.Send(sourceChanged{path: path, img: img, err: err})
	})
	return func() {
		cancel()
		if err := f.Close(); err != nil {
			log.Printf("watch close: %v", err)
		}
	}, nil
}

func (a *App) paint(s screen.Screen, w screen.Window, st frameState) {
	if st.size.X <= 0 || st.size.Y <= 0 {
		return
	}
	b, err := s.NewBuffer(st.size)
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	drawFrame(b.RGBA(), st)
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
