package theme

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedThemesParse(t *testing.T) {
	names := EmbeddedNames()
	want := []string{"dark", "default", "high_contrast"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("embedded = %v, want %v", names, want)
	}
	l := &Loader{}
	for _, name := range names {
		th, err := l.Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		if th.Name == "" {
			t.Errorf("theme %q has no name", name)
		}
	}
	hc, _ := l.Load("high_contrast")
	if hc.ButtonBackgroundActive != (color.RGBA{255, 255, 0, 255}) {
		t.Fatalf("named color not applied: %v", hc.ButtonBackgroundActive)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		err  bool
	}{
		{"#102030", color.RGBA{0x10, 0x20, 0x30, 0xFF}, false},
		{"#10203040", color.RGBA{0x10, 0x20, 0x30, 0x40}, false},
		{"White", color.RGBA{255, 255, 255, 255}, false},
		{"#12345", color.RGBA{}, true},
		{"notacolor", color.RGBA{}, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.err {
			t.Fatalf("ParseColor(%q) err = %v", tt.in, err)
		}
		if !tt.err && got != tt.want {
			t.Fatalf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	th := Default()
	th.Name = "mine"
	th.CheckerDark = color.RGBA{1, 2, 3, 4}
	got, err := Parse(strings.NewReader(th.Format()))
	if err != nil {
		t.Fatal(err)
	}
	if *got != *th {
		t.Fatalf("round trip = %+v, want %+v", got, th)
	}
}

func TestLoaderOrder(t *testing.T) {
	cfgDir := t.TempDir()
	sysDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(cfgDir, "mine.theme"), []byte("Name: user\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sysDir, "mine.theme"), []byte("Name: system\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sysDir, "only.theme"), []byte("Name: only\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	custom := Default()
	custom.Name = "inline"
	l := &Loader{ConfigDir: cfgDir, SystemDir: sysDir, Custom: map[string]*Theme{"inline": custom}}

	cases := map[string]string{
		"mine":                              "user",
		"only":                              "system",
		"inline":                            "inline",
		"dark":                              "Dark",
		"":                                  "Default",
		filepath.Join(sysDir, "mine.theme"): "system",
	}
	for name, want := range cases {
		th, err := l.Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		if th.Name != want {
			t.Errorf("Load(%q).Name = %q, want %q", name, th.Name, want)
		}
	}
	if _, err := l.Load("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPick(t *testing.T) {
	t.Setenv(EnvVar, "dark")
	if got := Pick("flag", "cfg"); got != "flag" {
		t.Fatalf("flag precedence: %q", got)
	}
	if got := Pick("", "cfg"); got != "dark" {
		t.Fatalf("env precedence: %q", got)
	}
	t.Setenv(EnvVar, "")
	if got := Pick("", "cfg"); got != "cfg" {
		t.Fatalf("config fallback: %q", got)
	}
}
