// Package notify sends desktop notifications for editor events the user
// has opted into.
package notify

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/example/maskpaint/internal/imageio"
	"github.com/example/maskpaint/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventExport emits a notification when payloads are exported.
	EventExport Event = "export"
	// EventSave emits a notification when an image is persisted to disk.
	EventSave Event = "save"
	// EventGenerate emits a notification when a generation job finishes.
	EventGenerate Event = "generate"
	// EventGenerateFailed emits a notification when a generation job fails.
	// It follows the EventGenerate setting.
	EventGenerateFailed Event = "generate-failed"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title   string
	Timeout time.Duration
	Events  map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title:   "maskpaint",
		Timeout: 5 * time.Second,
		Events: map[Event]EventPreference{
			EventExport:         {Template: "Exported %s"},
			EventSave:           {Template: "Saved %s"},
			EventGenerate:       {Template: "Generated %s"},
			EventGenerateFailed: {Template: "Generation failed: %s"},
		},
	}
}

// LoadPreferences reads configuration from environment variables.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("MASKPAINT_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	if v := strings.TrimSpace(os.Getenv("MASKPAINT_NOTIFY_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			prefs.Timeout = d
		} else {
			log.Printf("MASKPAINT_NOTIFY_TIMEOUT: %v", err)
		}
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			eventPrefs := prefs.Events[event]
			eventPrefs.Template = v
			prefs.Events[event] = eventPrefs
		}
	}
	apply("MASKPAINT_NOTIFY_EXPORT_TEXT", EventExport)
	apply("MASKPAINT_NOTIFY_SAVE_TEXT", EventSave)
	apply("MASKPAINT_NOTIFY_GENERATE_TEXT", EventGenerate)
	apply("MASKPAINT_NOTIFY_FAILED_TEXT", EventGenerateFailed)
	return prefs
}

// send is replaced in tests.
var send = platform.Notify

// Notifier sends OS-level notifications based on the configured
// preferences. It may be used from several goroutines.
type Notifier struct {
	prefs Preferences

	mu      sync.RWMutex
	enabled map[Event]bool
}

// New creates a new Notifier using the provided preferences.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Timeout: prefs.Timeout, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool)}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled[event] = enabled
}

// Export sends an export notification, detail naming what was exported.
func (n *Notifier) Export(detail string) {
	if strings.TrimSpace(detail) == "" {
		detail = "image and mask"
	}
	n.dispatch(EventExport, detail, platform.Options{})
}

// Save sends a save notification including the written filename when available.
func (n *Notifier) Save(path string) {
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// Generated sends a notification with a preview of the generated image.
func (n *Notifier) Generated(detail string, img image.Image) {
	if !n.enabledFor(EventGenerate) {
		return
	}
	opts := platform.Options{}
	if img != nil {
		if path, cleanup, err := createPreview(img); err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventGenerate, detail, opts)
}

// GenerateFailed reports a failed generation job.
func (n *Notifier) GenerateFailed(err error) {
	if err == nil || !n.enabledFor(EventGenerate) {
		return
	}
	n.dispatch(EventGenerateFailed, err.Error(), platform.Options{Urgent: true})
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil {
		return false
	}
	if event == EventGenerateFailed {
		event = EventGenerate
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	template := strings.TrimSpace(n.prefs.Events[event].Template)
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if opts.Timeout == 0 {
		opts.Timeout = n.prefs.Timeout
	}
	if err := send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "maskpaint-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	if _, err := imageio.SavePNG(path, img); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
