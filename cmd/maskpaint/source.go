package main

import (
	"errors"
	"flag"
	"fmt"
	"image"

	"github.com/example/maskpaint/internal/capture"
	"github.com/example/maskpaint/internal/clipboard"
	"github.com/example/maskpaint/internal/imageio"
)

var (
	captureScreenshotFn = capture.Screenshot
	readClipboardFn     = clipboard.ReadImage
)

var errSource = errors.New("choose exactly one of -file, -from-clipboard or -capture")

// sourceFlags selects where a command reads its working image from.
type sourceFlags struct {
	file          string
	fromClipboard bool
	capture       bool
	interactive   bool
	monitor       string
}

func (s *sourceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.file, "file", "", "image file to load (png, jpeg, gif, bmp, tiff or webp)")
	fs.BoolVar(&s.fromClipboard, "from-clipboard", false, "load the image from the clipboard")
	fs.BoolVar(&s.fromClipboard, "from-clip", false, "load the image from the clipboard (alias)")
	fs.BoolVar(&s.capture, "capture", false, "take a screenshot and use it as the image")
	fs.BoolVar(&s.interactive, "interactive", false, "let the screenshot dialog pick a region (with -capture)")
	fs.StringVar(&s.monitor, "monitor", "", "crop the screenshot to a monitor index, name or \"primary\" (with -capture)")
}

func (s *sourceFlags) validate() error {
	n := 0
	for _, set := range []bool{s.file != "", s.fromClipboard, s.capture} {
		if set {
			n++
		}
	}
	if n != 1 {
		return errSource
	}
	if !s.capture && (s.interactive || s.monitor != "") {
		return fmt.Errorf("-interactive and -monitor require -capture")
	}
	return nil
}

// load returns the image and a short label describing where it came from.
func (s *sourceFlags) load() (image.Image, string, error) {
	switch {
	case s.file != "":
		img, err := imageio.Load(s.file)
		if err != nil {
			return nil, "", err
		}
		return img, s.file, nil
	case s.fromClipboard:
		img, err := readClipboardFn()
		if err != nil {
			return nil, "", fmt.Errorf("failed to read clipboard: %w", err)
		}
		return img, "clipboard", nil
	case s.capture:
		img, err := captureScreenshotFn(capture.Options{Interactive: s.interactive, Monitor: s.monitor})
		if err != nil {
			return nil, "", fmt.Errorf("failed to capture screen: %w", err)
		}
		return img, "screenshot", nil
	}
	return nil, "", errSource
}
