package main

import (
	"flag"
	"fmt"
	"image"

	"github.com/example/maskpaint/internal/clipboard"
	"github.com/example/maskpaint/internal/editor"
	"github.com/example/maskpaint/internal/tool"
)

var writeClipboardFn = clipboard.WriteDataURL

// exportCmd prints the image and an empty mask as data URLs, ready to be
// posted to a generation service.
type exportCmd struct {
	src       sourceFlags
	copyImage bool
	*root
	fs *flag.FlagSet
}

func (e *exportCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseExportCmd(args []string, r *root) (*exportCmd, error) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	e := &exportCmd{root: r.subcommand("export"), fs: fs}
	fs.Usage = usageFunc(e)
	e.src.register(fs)
	fs.BoolVar(&e.copyImage, "copy", false, "also copy the image to the clipboard")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := e.src.validate(); err != nil {
		return nil, &UsageError{of: e, msg: err.Error()}
	}
	return e, nil
}

func (e *exportCmd) Run() error {
	img, _, err := e.src.load()
	if err != nil {
		return err
	}
	canvas := image.NewRGBA(image.Rectangle{Max: img.Bounds().Size()})
	ed, err := editor.Create(canvas, img, tool.Brush, 1)
	if err != nil {
		return err
	}
	base, mask, err := ed.ExportImages()
	if err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, base)
	fmt.Fprintln(e.stdout, mask)
	if e.copyImage {
		if err := writeClipboardFn(base); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
	}
	e.notifyExport("image and mask data URLs")
	return nil
}
