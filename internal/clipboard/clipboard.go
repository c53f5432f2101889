// Package clipboard moves images and text between the editor and the
// system clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"runtime"
	"sync"

	"github.com/example/maskpaint/internal/export"
	"github.com/example/maskpaint/internal/imageio"
)

type format int

const (
	formatText format = iota
	formatImage
)

// store is the system clipboard.
type store interface {
	init() error
	read(format) []byte
	write(format, []byte)
}

var (
	initOnce     sync.Once
	initErr      error
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")

	backend store = newStore()
)

func ensureInit() error {
	initOnce.Do(func() {
		if needsDisplay() && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		initErr = backend.init()
	})
	return initErr
}

func needsDisplay() bool {
	switch runtime.GOOS {
	case "darwin", "windows":
		return false
	}
	return true
}

// WriteImage encodes the provided image as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	backend.write(formatImage, buf.Bytes())
	return nil
}

// WriteDataURL publishes the PNG inside an exported data URL without
// re-encoding it.
func WriteDataURL(payload string) error {
	data, err := export.Bytes(payload)
	if err != nil {
		return err
	}
	if err := ensureInit(); err != nil {
		return err
	}
	backend.write(formatImage, data)
	return nil
}

// ReadImage retrieves image data from the clipboard and decodes it.
func ReadImage() (image.Image, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	data := backend.read(formatImage)
	if len(data) == 0 {
		return nil, fmt.Errorf("clipboard does not contain image data")
	}
	return imageio.DecodeBytes(data)
}

// WriteText writes text data to the clipboard.
func WriteText(text string) error {
	if err := ensureInit(); err != nil {
		return err
	}
	backend.write(formatText, []byte(text))
	return nil
}

// ReadText returns UTF-8 text data from the clipboard.
func ReadText() (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	data := backend.read(formatText)
	if len(data) == 0 {
		return "", fmt.Errorf("clipboard does not contain text data")
	}
	return string(data), nil
}
