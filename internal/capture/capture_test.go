package capture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
)

type fakeBackend struct {
	portal      *image.RGBA
	portalErr   error
	root        *image.RGBA
	rootErr     error
	monitors    []MonitorInfo
	interactive bool
	rootCalls   int
}

func (f *fakeBackend) Portal(_ context.Context, interactive bool) (*image.RGBA, error) {
	f.interactive = interactive
	return f.portal, f.portalErr
}

func (f *fakeBackend) Root() (*image.RGBA, error) {
	f.rootCalls++
	return f.root, f.rootErr
}

func (f *fakeBackend) Monitors() ([]MonitorInfo, error) { return f.monitors, nil }

func useBackend(t *testing.T, b backend) {
	t.Helper()
	prev := platform
	platform = b
	t.Cleanup(func() { platform = prev })
	t.Setenv("XDG_SESSION_TYPE", "x11")
	t.Setenv("WAYLAND_DISPLAY", "")
}

func desktop(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), 0, 255})
		}
	}
	return img
}

func TestScreenshotCropsToMonitor(t *testing.T) {
	f := &fakeBackend{
		portal: desktop(200, 100),
		monitors: []MonitorInfo{
			{Index: 0, Name: "DP-1", Rect: image.Rect(0, 0, 100, 100)},
			{Index: 1, Name: "HDMI-1", Rect: image.Rect(100, 0, 200, 100), Primary: true},
		},
	}
	useBackend(t, f)
	img, err := Screenshot(Options{Monitor: "primary"})
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 100, 100) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if got := img.RGBAAt(0, 5); got.R != 100 || got.G != 5 {
		t.Fatalf("origin pixel = %v", got)
	}
}

func TestScreenshotRegion(t *testing.T) {
	useBackend(t, &fakeBackend{portal: desktop(50, 50)})
	img, err := Screenshot(Options{Region: image.Rect(10, 20, 30, 60)})
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 20, 30) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if _, err := Screenshot(Options{Region: image.Rect(100, 100, 120, 120)}); err == nil {
		t.Fatal("region outside the desktop accepted")
	}
}

func TestScreenshotFallsBackToRoot(t *testing.T) {
	f := &fakeBackend{portalErr: errors.New("no portal"), root: desktop(8, 8)}
	useBackend(t, f)
	img, err := Screenshot(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if img != f.root || f.rootCalls != 1 {
		t.Fatal("root capture not used")
	}

	f.rootCalls = 0
	if _, err := Screenshot(Options{Interactive: true}); err == nil || f.rootCalls != 0 {
		t.Fatalf("interactive capture fell back: err=%v calls=%d", err, f.rootCalls)
	}
	if !f.interactive {
		t.Fatal("interactive flag not passed to the portal")
	}

	t.Setenv("WAYLAND_DISPLAY", "wayland-0")
	if _, err := Screenshot(Options{}); err == nil || f.rootCalls != 0 {
		t.Fatal("wayland session fell back to X11")
	}
}

func TestFindMonitor(t *testing.T) {
	monitors := []MonitorInfo{
		{Index: 0, Name: "eDP-1"},
		{Index: 1, Name: "HDMI-A-1", Primary: true},
	}
	tests := []struct {
		sel  string
		want int
		err  bool
	}{
		{"", 0, false},
		{"primary", 1, false},
		{"#1", 1, false},
		{"0", 0, false},
		{"hdmi", 1, false},
		{"5", 0, true},
		{"vga", 0, true},
	}
	for _, tt := range tests {
		got, err := FindMonitor(monitors, tt.sel)
		if (err != nil) != tt.err {
			t.Fatalf("FindMonitor(%q) err = %v", tt.sel, err)
		}
		if !tt.err && got.Index != tt.want {
			t.Fatalf("FindMonitor(%q) = %d, want %d", tt.sel, got.Index, tt.want)
		}
	}
	if _, err := FindMonitor(nil, ""); !errors.Is(err, errNoMonitors) {
		t.Fatalf("expected errNoMonitors, got %v", err)
	}
}
