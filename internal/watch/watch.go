// Package watch reports when a source image file changes on disk.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is how long a file must stay quiet before a change is
// reported.
const DefaultDelay = 300 * time.Millisecond

// debouncer coalesces rapid event bursts into a single callback per file.
type debouncer struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	delay  time.Duration
	onFire func(path string)
}

func newDebouncer(delay time.Duration, onFire func(path string)) *debouncer {
	return &debouncer{
		timers: make(map[string]*time.Timer),
		delay:  delay,
		onFire: onFire,
	}
}

func (d *debouncer) trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[path]; ok {
		t.Reset(d.delay)
		return
	}
	d.timers[path] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, path)
		d.mu.Unlock()
		d.onFire(path)
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for path, t := range d.timers {
		t.Stop()
		delete(d.timers, path)
	}
}

// File watches a single file. The parent directory is watched so editors
// that save by writing a new file and renaming it over the old one are
// still seen.
type File struct {
	path  string
	delay time.Duration
	w     *fsnotify.Watcher
}

// NewFile starts watching path. A delay of zero uses DefaultDelay.
func NewFile(path string, delay time.Duration) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	return &File{path: abs, delay: delay, w: w}, nil
}

// Path returns the absolute path being watched.
func (f *File) Path() string { return f.path }

// Run calls onChange from its own goroutine after each burst of writes to
// the file settles, until ctx ends or Close is called. Removal of the file
// is not reported; a later re-creation is.
func (f *File) Run(ctx context.Context, onChange func(path string)) {
	db := newDebouncer(f.delay, onChange)
	defer db.stop()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-f.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != f.path {
				continue
			}
			if ev.Has(fsnotify.Remove) {
				continue
			}
			if ev.Has(fsnotify.Rename) {
				if _, err := os.Stat(ev.Name); err != nil {
					continue
				}
			}
			db.trigger(f.path)
		case err, ok := <-f.w.Errors:
			if !ok {
				return
			}
			log.Printf("watch %s: %v", f.path, err)
		}
	}
}

// Close stops the underlying watcher.
func (f *File) Close() error { return f.w.Close() }
