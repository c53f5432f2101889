package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// EnvVar names the environment variable that selects a theme.
const EnvVar = "MASKPAINT_THEME"

// ErrNotFound is returned when no source has the requested theme.
var ErrNotFound = errors.New("theme not found")

// Loader handles loading themes from various sources.
type Loader struct {
	ConfigDir string
	SystemDir string
	// Custom holds themes defined inline in the config file.
	Custom map[string]*Theme
}

// NewLoader creates a new Loader with standard paths.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		ConfigDir: filepath.Join(home, ".config", "maskpaint", "themes"),
		SystemDir: "/usr/share/maskpaint/themes",
	}
}

// Pick returns the first non-empty of the flag value, $MASKPAINT_THEME and
// the configured name.
func Pick(flagValue, configured string) string {
	for _, v := range []string{flagValue, os.Getenv(EnvVar), configured} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Load attempts to load a theme by name or path.
// Order:
// 1. Themes defined in the config file.
// 2. If it's a file path that exists, load it.
// 3. Check embedded themes.
// 4. Check ConfigDir.
// 5. Check SystemDir.
// An empty name gives Default.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}

	if t, ok := l.Custom[name]; ok && t != nil {
		return t, nil
	}

	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return loadFile(os.DirFS(filepath.Dir(name)), filepath.Base(name))
	}

	// Normalize name (ensure .theme extension for lookup if missing)
	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}

	if t, err := loadFile(EmbeddedThemes, "defaults/"+filename); err == nil {
		return t, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		t, err := loadFile(os.DirFS(dir), filename)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

func loadFile(fsys fs.FS, name string) (*Theme, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", name, err)
	}
	return t, nil
}
