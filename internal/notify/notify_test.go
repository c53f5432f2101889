package notify

import (
	"errors"
	"image"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/example/maskpaint/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
	iconExisted bool
}

func capture(t *testing.T) *[]sent {
	t.Helper()
	var got []sent
	prev := send
	send = func(title, body string, opts platform.Options) error {
		s := sent{title: title, body: body, opts: opts}
		if opts.IconPath != "" {
			_, err := os.Stat(opts.IconPath)
			s.iconExisted = err == nil
		}
		got = append(got, s)
		return nil
	}
	t.Cleanup(func() { send = prev })
	return &got
}

func TestDisabledEventsAreSilent(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Export("")
	n.Save("x.png")
	n.Generated("result", nil)
	n.GenerateFailed(errors.New("boom"))
	if len(*got) != 0 {
		t.Fatalf("sent %v", *got)
	}
	var nilNotifier *Notifier
	nilNotifier.Enable(EventSave, true)
	nilNotifier.Save("x")
}

func TestEnabledEvents(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Enable(EventExport, true)
	n.Enable(EventGenerate, true)
	n.Export("")
	n.Generated("result.png", image.NewRGBA(image.Rect(0, 0, 2, 2)))
	n.GenerateFailed(errors.New("quota"))
	n.Save("ignored.png")

	if len(*got) != 3 {
		t.Fatalf("sent %d notifications: %v", len(*got), *got)
	}
	if (*got)[0].body != "Exported image and mask" || (*got)[0].title != "maskpaint" {
		t.Errorf("export = %+v", (*got)[0])
	}
	if !(*got)[1].iconExisted || !strings.Contains((*got)[1].body, "result.png") {
		t.Errorf("generated = %+v", (*got)[1])
	}
	if _, err := os.Stat((*got)[1].opts.IconPath); !os.IsNotExist(err) {
		t.Errorf("preview not cleaned up: %v", err)
	}
	if !(*got)[2].opts.Urgent || (*got)[2].body != "Generation failed: quota" {
		t.Errorf("failed = %+v", (*got)[2])
	}
	if (*got)[0].opts.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", (*got)[0].opts.Timeout)
	}
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("MASKPAINT_NOTIFY_TITLE", "Masks")
	t.Setenv("MASKPAINT_NOTIFY_SAVE_TEXT", "Wrote %s")
	t.Setenv("MASKPAINT_NOTIFY_TIMEOUT", "2s")
	prefs := LoadPreferences()
	if prefs.Title != "Masks" || prefs.Events[EventSave].Template != "Wrote %s" || prefs.Timeout != 2*time.Second {
		t.Fatalf("prefs = %+v", prefs)
	}
	if prefs.Events[EventExport].Template != "Exported %s" {
		t.Fatal("unset event template changed")
	}
}
