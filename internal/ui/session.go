package ui

import (
	"context"
	"fmt"
	"image"
	"log"
	"path/filepath"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/maskpaint/internal/clipboard"
	"github.com/example/maskpaint/internal/editor"
	"github.com/example/maskpaint/internal/export"
	"github.com/example/maskpaint/internal/imageio"
	"github.com/example/maskpaint/internal/tool"
)

// Generator sends an image and mask to a generation service and returns
// the resulting image as a data URL.
type Generator interface {
	Generate(ctx context.Context, image, mask string, progress func(int)) (string, error)
}

// Notifier receives desktop notifications for completed actions.
type Notifier interface {
	Export(detail string)
	Save(path string)
	Generated(detail string, img image.Image)
	GenerateFailed(err error)
}

// Output file names written by the save action.
const (
	BaseFile = "base.png"
	MaskFile = "mask.png"
)

var copyDataURL = clipboard.WriteDataURL

type action int

const (
	actNone action = iota
	actBrush
	actEraser
	actSmaller
	actLarger
	actReset
	actSave
	actCopy
	actGenerate
	actQuit
)

var toolbarActions = []struct {
	label string
	act   action
}{
	{"B:Brush", actBrush},
	{"E:Eraser", actEraser},
	{"[:Smaller", actSmaller},
	{"]:Larger", actLarger},
	{"R:Reset", actReset},
	{"^S:Save", actSave},
	{"^C:Copy", actCopy},
	{"G:Generate", actGenerate},
	{"Q:Quit", actQuit},
}

// keyAction maps a key press to an action.
func keyAction(e key.Event) action {
	if e.Direction != key.DirPress {
		return actNone
	}
	if e.Modifiers&key.ModControl != 0 {
		switch e.Code {
		case key.CodeS:
			return actSave
		case key.CodeC:
			return actCopy
		}
		return actNone
	}
	switch e.Code {
	case key.CodeB:
		return actBrush
	case key.CodeE:
		return actEraser
	case key.CodeLeftSquareBracket:
		return actSmaller
	case key.CodeRightSquareBracket:
		return actLarger
	case key.CodeR:
		return actReset
	case key.CodeG:
		return actGenerate
	case key.CodeQ, key.CodeEscape:
		return actQuit
	}
	return actNone
}

// Events posted to the window loop by background goroutines.
type (
	generateProgress struct{ job, percent int }
	generateDone     struct {
		job     int
		payload string
		err     error
	}
	sourceChanged struct {
		path string
		img  image.Image
		err  error
	}
)

// session holds the editing state driven by the window loop. All methods
// run on the loop goroutine.
type session struct {
	ed       *editor.Editor
	sizeIdx  int
	saveDir  string
	gen      Generator
	timeout  time.Duration
	notifier Notifier
	post     func(any)

	painting   bool
	generating bool
	job        int
	cancel     context.CancelFunc
	quit       bool
	status     string
}

func (s *session) handle(act action) {
	switch act {
	case actBrush:
		s.selectTool(tool.Brush, s.sizeIdx)
	case actEraser:
		s.selectTool(tool.Eraser, s.sizeIdx)
	case actSmaller:
		s.selectTool(s.ed.Tool().Kind, s.sizeIdx-1)
	case actLarger:
		s.selectTool(s.ed.Tool().Kind, s.sizeIdx+1)
	case actReset:
		if err := s.ed.UpdateImage(s.ed.WorkingImage()); err != nil {
			s.fail("reset", err)
			return
		}
		s.status = "mask cleared"
	case actSave:
		s.save()
	case actCopy:
		s.copyMask()
	case actGenerate:
		s.generate()
	case actQuit:
		s.close()
	}
}

func (s *session) isActive(act action) bool {
	switch act {
	case actBrush:
		return s.ed.Tool().Kind == tool.Brush
	case actEraser:
		return s.ed.Tool().Kind == tool.Eraser
	case actGenerate:
		return s.generating
	}
	return false
}

func (s *session) selectTool(kind tool.Kind, idx int) {
	idx = tool.ClampSizeIndex(idx)
	if err := s.ed.SelectTool(kind, tool.SizeAt(idx)); err != nil {
		s.fail("select tool", err)
		return
	}
	s.sizeIdx = idx
	s.status = fmt.Sprintf("%s, %s", kind, sizeLabel(tool.SizeAt(idx)))
}

// pointer applies a mouse event inside a window whose canvas occupies
// canvas. It reports whether the frame changed.
func (s *session) pointer(e mouse.Event, canvas image.Rectangle) bool {
	switch {
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
		if !image.Pt(int(e.X), int(e.Y)).In(canvas) {
			return false
		}
		s.painting = true
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
		s.painting = false
		return false
	case e.Direction == mouse.DirNone:
		if !s.painting {
			return false
		}
	default:
		return false
	}
	nx, ny, ok := normalize(canvas, e.X, e.Y)
	if !ok {
		return false
	}
	if err := s.ed.UpdatePointer(nx, ny); err != nil {
		s.fail("paint", err)
		return false
	}
	return true
}

func (s *session) save() {
	base, err := imageio.SavePNG(filepath.Join(s.saveDir, BaseFile), s.ed.WorkingImage())
	if err != nil {
		s.fail("save", err)
		return
	}
	mask, err := imageio.SavePNG(filepath.Join(s.saveDir, MaskFile), s.ed.MaskImage())
	if err != nil {
		s.fail("save", err)
		return
	}
	s.status = "saved " + filepath.Dir(mask)
	log.Printf("saved %s and %s", base, mask)
	if s.notifier != nil {
		s.notifier.Save(mask)
	}
}

func (s *session) copyMask() {
	_, mask, err := s.ed.ExportImages()
	if err != nil {
		s.fail("copy", err)
		return
	}
	if err := copyDataURL(mask); err != nil {
		s.fail("copy", err)
		return
	}
	s.status = "mask copied"
	if s.notifier != nil {
		s.notifier.Export("mask copied to clipboard")
	}
}

func (s *session) generate() {
	if s.generating {
		return
	}
	if s.gen == nil {
		s.status = "no upload endpoint configured"
		return
	}
	base, mask, err := s.ed.ExportImages()
	if err != nil {
		s.fail("export", err)
		return
	}
	ctx := context.Background()
	var cancel context.CancelFunc
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	s.job++
	s.cancel = cancel
	s.generating = true
	s.status = "generating"
	gen, post, job := s.gen, s.post, s.job
	go func() {
		defer cancel()
		payload, err := gen.Generate(ctx, base, mask, func(p int) { post(generateProgress{job: job, percent: p}) })
		post(generateDone{job: job, payload: payload, err: err})
	}()
}

func (s *session) progress(ev generateProgress) {
	if s.generating && ev.job == s.job {
		s.status = fmt.Sprintf("generating %d%%", ev.percent)
	}
}

// generated applies a finished job. Results of a job that was cancelled by
// a reload are dropped.
func (s *session) generated(ev generateDone) {
	if !s.generating || ev.job != s.job {
		return
	}
	s.generating = false
	s.cancel = nil
	if ev.err != nil {
		s.fail("generate", ev.err)
		if s.notifier != nil {
			s.notifier.GenerateFailed(ev.err)
		}
		return
	}
	img, err := export.Decode(ev.payload)
	if err == nil {
		err = s.ed.UpdateImage(img)
	}
	if err != nil {
		s.fail("generate", err)
		if s.notifier != nil {
			s.notifier.GenerateFailed(err)
		}
		return
	}
	s.status = "generated"
	if s.notifier != nil {
		s.notifier.Generated("", img)
	}
}

func (s *session) sourceChanged(ev sourceChanged) {
	if ev.err == nil {
		ev.err = s.ed.UpdateImage(ev.img)
	}
	if ev.err != nil {
		s.fail("reload "+filepath.Base(ev.path), ev.err)
		return
	}
	s.painting = false
	s.status = "reloaded " + filepath.Base(ev.path)
	if s.generating {
		s.stopGenerate()
		s.status += ", generation cancelled"
	}
}

func (s *session) close() {
	s.stopGenerate()
	s.quit = true
}

func (s *session) stopGenerate() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generating = false
}

func (s *session) fail(what string, err error) {
	log.Printf("%s: %v", what, err)
	s.status = fmt.Sprintf("%s failed: %v", what, err)
}
