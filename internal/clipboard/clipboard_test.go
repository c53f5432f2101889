package clipboard

import (
	"errors"
	"image"
	"image/color"
	"runtime"
	"sync"
	"testing"

	"github.com/example/maskpaint/internal/export"
)

type memStore struct {
	data map[format][]byte
}

func (m *memStore) init() error { return nil }

func (m *memStore) read(f format) []byte { return m.data[f] }

func (m *memStore) write(f format, data []byte) {
	if m.data == nil {
		m.data = make(map[format][]byte)
	}
	m.data[f] = append([]byte(nil), data...)
}

func reset(t *testing.T, s store) {
	t.Helper()
	prev := backend
	backend = s
	initOnce = sync.Once{}
	initErr = nil
	t.Cleanup(func() {
		backend = prev
		initOnce = sync.Once{}
		initErr = nil
	})
}

func TestEnsureInitWithoutDisplay(t *testing.T) {
	if !needsDisplay() {
		t.Skipf("%s does not need a display", runtime.GOOS)
	}
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	reset(t, &memStore{})

	err := WriteText("hello world")
	if !errors.Is(err, errNoDisplay) {
		t.Fatalf("expected errNoDisplay, got %v", err)
	}
}

func TestImageRoundTrip(t *testing.T) {
	t.Setenv("DISPLAY", ":0")
	reset(t, &memStore{})

	src := image.NewRGBA(image.Rect(0, 0, 3, 3))
	src.SetRGBA(1, 1, color.RGBA{R: 200, A: 255})
	if err := WriteImage(src); err != nil {
		t.Fatal(err)
	}
	img, err := ReadImage()
	if err != nil {
		t.Fatal(err)
	}
	if r, _, _, _ := img.At(1, 1).RGBA(); r>>8 != 200 {
		t.Fatalf("pixel red = %d", r>>8)
	}
}

func TestWriteDataURL(t *testing.T) {
	t.Setenv("DISPLAY", ":0")
	mem := &memStore{}
	reset(t, mem)

	payload, err := export.Encode(image.NewRGBA(image.Rect(0, 0, 4, 2)))
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteDataURL(payload); err != nil {
		t.Fatal(err)
	}
	img, err := ReadImage()
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 2 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if err := WriteDataURL("not a payload"); !errors.Is(err, export.ErrNotDataURL) {
		t.Fatalf("expected ErrNotDataURL, got %v", err)
	}
}

func TestReadEmpty(t *testing.T) {
	t.Setenv("DISPLAY", ":0")
	reset(t, &memStore{})
	if _, err := ReadImage(); err == nil {
		t.Fatal("empty clipboard returned an image")
	}
	if _, err := ReadText(); err == nil {
		t.Fatal("empty clipboard returned text")
	}
	if err := WriteText("hi"); err != nil {
		t.Fatal(err)
	}
	if s, err := ReadText(); err != nil || s != "hi" {
		t.Fatalf("ReadText = %q, %v", s, err)
	}
}
