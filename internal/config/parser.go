package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/example/maskpaint/internal/theme"
)

// Parse reads configuration in RC format from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	// Context for parsing
	var currentSection string
	var currentTheme *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		// Handle Sections
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentTheme = nil

			if themeName, ok := strings.CutPrefix(currentSection, "theme."); ok {
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			continue
		}

		// Parse Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		// Remove quotes if present
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch section := strings.ToLower(currentSection); {
		case currentTheme != nil:
			err = currentTheme.Set(key, value)
		case section == "":
			err = setRootField(cfg, key, value)
		case section == "editor":
			err = setEditorField(&cfg.Editor, key, value)
		case section == "upload":
			err = setUploadField(&cfg.Upload, key, value)
		case section == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			if currentSection == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	}
	return nil
}

func setEditorField(e *Editor, key, value string) error {
	switch strings.ToLower(key) {
	case "tool":
		e.Tool = value
	case "brush_size":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("invalid brush_size %q", value)
		}
		e.BrushSize = f
	case "mask_color":
		if _, err := theme.ParseColor(value); err != nil {
			return fmt.Errorf("invalid mask_color: %w", err)
		}
		e.MaskColor = value
	case "canvas":
		if _, err := ParseSize(value); err != nil {
			return err
		}
		e.Canvas = value
	}
	return nil
}

func setUploadField(u *Upload, key, value string) error {
	switch strings.ToLower(key) {
	case "endpoint":
		u.Endpoint = value
	case "poll_interval", "timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for key %s: %w", key, err)
		}
		if strings.EqualFold(key, "timeout") {
			u.Timeout = d
		} else {
			u.PollInterval = d
		}
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "export":
		n.Export = b
	case "save":
		n.Save = b
	case "generate":
		n.Generate = b
	}
	return nil
}

// tomlFile mirrors the RC sections for config.toml. The active theme is
// "theme_name" because [theme.NAME] tables own the "theme" key.
type tomlFile struct {
	ThemeName string `toml:"theme_name"`
	SaveDir   string `toml:"save_dir"`
	Editor    struct {
		Tool      string   `toml:"tool"`
		BrushSize *float64 `toml:"brush_size"`
		MaskColor string   `toml:"mask_color"`
		Canvas    string   `toml:"canvas"`
	} `toml:"editor"`
	Upload struct {
		Endpoint     string `toml:"endpoint"`
		PollInterval string `toml:"poll_interval"`
		Timeout      string `toml:"timeout"`
	} `toml:"upload"`
	Notify struct {
		Export   *bool `toml:"export"`
		Save     *bool `toml:"save"`
		Generate *bool `toml:"generate"`
	} `toml:"notify"`
	Themes map[string]map[string]string `toml:"theme"`
}

// ParseTOML reads configuration in TOML format. Themes are tables under
// [theme.NAME] whose keys are theme field names.
func ParseTOML(r io.Reader) (*Config, error) {
	var f tomlFile
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing toml config: %w", err)
	}
	return f.apply()
}

func (f tomlFile) apply() (*Config, error) {
	cfg := New()
	cfg.Theme = f.ThemeName
	cfg.SaveDir = f.SaveDir

	editor := map[string]string{
		"tool":       f.Editor.Tool,
		"mask_color": f.Editor.MaskColor,
		"canvas":     f.Editor.Canvas,
	}
	for k, v := range editor {
		if v == "" {
			continue
		}
		if err := setEditorField(&cfg.Editor, k, v); err != nil {
			return nil, fmt.Errorf("error in section [editor]: %w", err)
		}
	}
	upload := map[string]string{
		"endpoint":      f.Upload.Endpoint,
		"poll_interval": f.Upload.PollInterval,
		"timeout":       f.Upload.Timeout,
	}
	for k, v := range upload {
		if v == "" {
			continue
		}
		if err := setUploadField(&cfg.Upload, k, v); err != nil {
			return nil, fmt.Errorf("error in section [upload]: %w", err)
		}
	}
	if f.Editor.BrushSize != nil {
		if *f.Editor.BrushSize < 0 {
			return nil, fmt.Errorf("error in section [editor]: invalid brush_size %v", *f.Editor.BrushSize)
		}
		cfg.Editor.BrushSize = *f.Editor.BrushSize
	}
	if f.Notify.Export != nil {
		cfg.Notify.Export = *f.Notify.Export
	}
	if f.Notify.Save != nil {
		cfg.Notify.Save = *f.Notify.Save
	}
	if f.Notify.Generate != nil {
		cfg.Notify.Generate = *f.Notify.Generate
	}
	for name, fields := range f.Themes {
		t := theme.Default()
		t.Name = name
		for k, v := range fields {
			if err := t.Set(k, v); err != nil {
				return nil, fmt.Errorf("error in section [theme.%s]: %w", name, err)
			}
		}
		cfg.Themes[name] = t
	}
	return cfg, nil
}
