package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/maskpaint/internal/capture"
	"github.com/example/maskpaint/internal/config"
	"github.com/example/maskpaint/internal/export"
	"github.com/example/maskpaint/internal/imageio"
	"github.com/example/maskpaint/internal/theme"
	"github.com/example/maskpaint/internal/ui"
)

func testRoot(t *testing.T) (*root, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	r := &root{
		fs:      flag.NewFlagSet("maskpaint", flag.ContinueOnError),
		program: "maskpaint",
		stdout:  &stdout,
		stderr:  &stderr,
		config:  config.New(),
	}
	r.fs.SetOutput(&stderr)
	r.fs.StringVar(&r.themeName, "theme", "", "")
	r.fs.BoolVar(&r.verbose, "v", false, "")
	t.Setenv(theme.EnvVar, "")
	return r, &stdout, &stderr
}

func writeImage(t *testing.T, w, h int, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	path, err := imageio.SavePNG(filepath.Join(t.TempDir(), "src.png"), img)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func alphaAt(t *testing.T, path string, x, y int) uint32 {
	t.Helper()
	img, err := imageio.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	_, _, _, a := img.At(x, y).RGBA()
	return a >> 8
}

func TestMaskCommandPaintsPoints(t *testing.T) {
	r, _, stderr := testRoot(t)
	src := writeImage(t, 100, 50, color.RGBA{0, 0, 255, 255})
	out := t.TempDir()
	maskOut := filepath.Join(out, "mask.png")
	baseOut := filepath.Join(out, "base.png")

	err := r.Run([]string{"mask", "-file", src, "-canvas", "200x100", "-size", "10",
		"-base-out", baseOut, "-mask-out", maskOut, "0.25,0.5", "0.75,0.5"})
	if err != nil {
		t.Fatalf("mask: %v", err)
	}
	if !strings.Contains(stderr.String(), "200x100 canvas") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if a := alphaAt(t, maskOut, 50, 25); a != 255 {
		t.Errorf("stroke alpha = %d", a)
	}
	if a := alphaAt(t, maskOut, 50, 5); a != 0 {
		t.Errorf("alpha away from the stroke = %d", a)
	}
	if a := alphaAt(t, baseOut, 50, 5); a != 255 {
		t.Errorf("base alpha = %d", a)
	}
}

func TestMaskCommandScriptDataURL(t *testing.T) {
	r, stdout, _ := testRoot(t)
	src := writeImage(t, 40, 40, color.RGBA{255, 0, 0, 255})
	scriptPath := filepath.Join(t.TempDir(), "s.yaml")
	yaml := "canvas: {width: 40, height: 40}\nsteps:\n  - tool: brush\n    size: 4\n    points: [[0.5, 0.5]]\n"
	if err := os.WriteFile(scriptPath, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := r.Run([]string{"mask", "-file", src, "-script", scriptPath, "-data-url"}); err != nil {
		t.Fatalf("mask: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	mask, err := export.Decode(lines[1])
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, a := mask.At(20, 20).RGBA(); a == 0 {
		t.Fatal("script stroke missing from the mask payload")
	}
}

func TestParseMaskErrors(t *testing.T) {
	r, _, _ := testRoot(t)
	src := writeImage(t, 4, 4, color.RGBA{A: 255})
	cases := map[string][]string{
		"no outputs":        {"-file", src, "0.5,0.5"},
		"bad point":         {"-file", src, "-data-url", "half"},
		"point off canvas":  {"-file", src, "-data-url", "1.5,0.5"},
		"two sources":       {"-file", src, "-capture", "-data-url"},
		"no source":         {"-data-url"},
		"points and script": {"-file", src, "-script", "s.yaml", "-data-url", "0.1,0.1"},
		"monitor alone":     {"-file", src, "-monitor", "0", "-data-url"},
	}
	for name, args := range cases {
		_, err := parseMaskCmd(args, r)
		var uerr *UsageError
		if !errors.As(err, &uerr) {
			t.Errorf("%s: expected usage error, got %v", name, err)
			continue
		}
		if !strings.Contains(uerr.Error(), "Usage: maskpaint mask") {
			t.Errorf("%s: help not rendered: %q", name, uerr.Error())
		}
	}
}

func TestExportCommand(t *testing.T) {
	r, stdout, _ := testRoot(t)
	src := writeImage(t, 30, 10, color.RGBA{0, 255, 0, 255})
	var copied string
	prev := writeClipboardFn
	writeClipboardFn = func(p string) error { copied = p; return nil }
	t.Cleanup(func() { writeClipboardFn = prev })

	if err := r.Run([]string{"export", "-file", src, "-copy"}); err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if copied != lines[0] {
		t.Error("clipboard did not get the image payload")
	}
	mask, err := export.Decode(lines[1])
	if err != nil {
		t.Fatal(err)
	}
	if mask.Bounds().Dx() != 30 || mask.Bounds().Dy() != 10 {
		t.Fatalf("mask bounds = %v", mask.Bounds())
	}
	if _, _, _, a := mask.At(15, 5).RGBA(); a != 0 {
		t.Fatal("untouched mask is not transparent")
	}
}

func TestCaptureErrorIsWrapped(t *testing.T) {
	r, _, _ := testRoot(t)
	sentinel := errors.New("portal denied")
	prev := captureScreenshotFn
	captureScreenshotFn = func(capture.Options) (*image.RGBA, error) { return nil, sentinel }
	t.Cleanup(func() { captureScreenshotFn = prev })

	err := r.Run([]string{"export", "-capture"})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if want := "failed to capture screen"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to contain %q, got %v", want, err)
	}
}

func TestClipboardSource(t *testing.T) {
	r, stdout, _ := testRoot(t)
	prev := readClipboardFn
	readClipboardFn = func() (image.Image, error) { return image.NewRGBA(image.Rect(0, 0, 3, 3)), nil }
	t.Cleanup(func() { readClipboardFn = prev })

	if err := r.Run([]string{"export", "-from-clipboard"}); err != nil {
		t.Fatal(err)
	}
	if strings.Count(stdout.String(), export.PNGPrefix) != 2 {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestSubmitCommand(t *testing.T) {
	result, err := export.Encode(image.NewRGBA(image.Rect(0, 0, 8, 6)))
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /jobs", func(w http.ResponseWriter, req *http.Request) {
		_ = json.NewDecoder(req.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"id":"7"}`))
	})
	mux.HandleFunc("GET /jobs/7", func(w http.ResponseWriter, req *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "done", "image": result})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	r, stdout, stderr := testRoot(t)
	r.config.Upload.PollInterval = time.Millisecond
	base := writeImage(t, 8, 6, color.RGBA{1, 2, 3, 255})
	maskFile := filepath.Join(t.TempDir(), "mask.txt")
	blank, err := export.Encode(image.NewRGBA(image.Rect(0, 0, 8, 6)))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(maskFile, []byte(blank+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(t.TempDir(), "out.png")

	if err := r.Run([]string{"submit", "-base", base, "-mask", maskFile, "-endpoint", srv.URL, "-output", output}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got["mask"] != blank || !strings.HasPrefix(got["image"], export.PNGPrefix) {
		t.Fatalf("submitted %v", got)
	}
	if !strings.Contains(stderr.String(), "progress: 100%") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if strings.TrimSpace(stdout.String()) == "" {
		t.Error("output path not printed")
	}
	img, err := imageio.Load(output)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 8 {
		t.Fatalf("output bounds = %v", img.Bounds())
	}
}

func TestSubmitRequiresEndpoint(t *testing.T) {
	r, _, _ := testRoot(t)
	base := writeImage(t, 2, 2, color.RGBA{A: 255})
	err := r.Run([]string{"submit", "-base", base, "-mask", base})
	if err == nil || !strings.Contains(err.Error(), "no endpoint") {
		t.Fatalf("err = %v", err)
	}
}

func TestEditCommandBuildsWindow(t *testing.T) {
	r, _, _ := testRoot(t)
	r.config.Editor.Canvas = "320x200"
	r.config.Editor.Tool = "eraser"
	src := writeImage(t, 10, 10, color.RGBA{A: 255})
	var app *ui.App
	prev := runWindowFn
	runWindowFn = func(a *ui.App) error { app = a; return nil }
	t.Cleanup(func() { runWindowFn = prev })

	if err := r.Run([]string{"-theme", "dark", "edit", "-file", src, "-watch", "-endpoint", "http://localhost:1"}); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if app == nil {
		t.Fatal("window not started")
	}
	if app.CanvasSize != image.Pt(320, 200) || app.Tool.String() != "eraser" {
		t.Errorf("app = %+v", app)
	}
	if app.WatchPath != src || app.Generator == nil || app.Theme.Name != "Dark" {
		t.Errorf("watch %q generator %v theme %q", app.WatchPath, app.Generator, app.Theme.Name)
	}
	if !strings.Contains(app.Title, src) {
		t.Errorf("title = %q", app.Title)
	}

	_, err := parseEditCmd([]string{"-from-clipboard", "-watch"}, r)
	var uerr *UsageError
	if !errors.As(err, &uerr) || !strings.Contains(err.Error(), "-watch requires -file") {
		t.Fatalf("err = %v", err)
	}
}

func TestConfigPrintAndVersion(t *testing.T) {
	r, stdout, _ := testRoot(t)
	r.config.SaveDir = "/tmp/masks"
	if err := r.Run([]string{"config", "print"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout.String(), "save_dir = /tmp/masks") {
		t.Fatalf("config print = %q", stdout.String())
	}
	stdout.Reset()
	if err := r.Run([]string{"version"}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(stdout.String(), "maskpaint version "+version) {
		t.Fatalf("version = %q", stdout.String())
	}
}

func TestConfigSave(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	r, _, stderr := testRoot(t)
	r.config.SaveDir = "/srv/out"
	if err := r.Run([]string{"config", "save"}); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(home, ".config", "maskpaint", "config.rc")
	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SaveDir != "/srv/out" || !strings.Contains(stderr.String(), path) {
		t.Fatalf("saved %+v, stderr %q", cfg, stderr.String())
	}
}

func TestHelpTemplatesRender(t *testing.T) {
	r, _, _ := testRoot(t)
	for _, h := range []HelpData{
		r,
		&editCmd{root: r.subcommand("edit"), fs: flag.NewFlagSet("edit", flag.ContinueOnError)},
		&maskCmd{root: r.subcommand("mask"), fs: flag.NewFlagSet("mask", flag.ContinueOnError)},
		&exportCmd{root: r.subcommand("export"), fs: flag.NewFlagSet("export", flag.ContinueOnError)},
		&submitCmd{root: r.subcommand("submit"), fs: flag.NewFlagSet("submit", flag.ContinueOnError)},
		&monitorsCmd{root: r.subcommand("monitors")},
		&configCmd{root: r.subcommand("config")},
		&versionCmd{root: r.subcommand("version")},
	} {
		help, err := (&UsageError{of: h}).renderHelp()
		if err != nil {
			t.Fatalf("%s: %v", h.Template(), err)
		}
		if !strings.Contains(help, h.Program()) {
			t.Errorf("%s does not mention %q", h.Template(), h.Program())
		}
	}
	if err := r.Run(nil); !strings.Contains(err.Error(), "Commands:") {
		t.Fatalf("root usage = %v", err)
	}
}

func TestMaskCommandFeather(t *testing.T) {
	r, _, _ := testRoot(t)
	src := writeImage(t, 60, 60, color.RGBA{A: 255})
	hard := filepath.Join(t.TempDir(), "hard.png")
	soft := filepath.Join(t.TempDir(), "soft.png")
	if err := r.Run([]string{"mask", "-file", src, "-canvas", "60x60", "-size", "10", "-mask-out", hard, "0.5,0.5"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Run([]string{"mask", "-file", src, "-canvas", "60x60", "-size", "10", "-feather", "4", "-mask-out", soft, "0.5,0.5"}); err != nil {
		t.Fatal(err)
	}
	if a := alphaAt(t, hard, 30, 42); a != 0 {
		t.Fatalf("hard mask alpha outside the disc = %d", a)
	}
	if a := alphaAt(t, soft, 30, 42); a == 0 || a == 255 {
		t.Fatalf("feathered alpha just outside the disc = %d", a)
	}
}
