// Package capture obtains a source image from the desktop.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds how long the screenshot portal may take, including
// an interactive selection.
const DefaultTimeout = 2 * time.Minute

var errNoMonitors = errors.New("no monitors available")

// Options selects what to capture.
type Options struct {
	// Interactive lets the user pick a region in the portal dialog.
	Interactive bool
	// Monitor crops the result to one monitor: an index, "primary" or part
	// of its output name.
	Monitor string
	// Region crops the result to a rectangle in global screen coordinates.
	Region image.Rectangle
	// Timeout overrides DefaultTimeout.
	Timeout time.Duration
}

// MonitorInfo describes an individual monitor in the display layout.
type MonitorInfo struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

type backend interface {
	Portal(ctx context.Context, interactive bool) (*image.RGBA, error)
	Root() (*image.RGBA, error)
	Monitors() ([]MonitorInfo, error)
}

var platform backend = newBackend()

// Screenshot captures the desktop through the screenshot portal. Outside
// Wayland it falls back to reading the X11 root window when the portal is
// unavailable; interactive captures have no fallback.
func Screenshot(opts Options) (*image.RGBA, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	img, err := platform.Portal(ctx, opts.Interactive)
	if err != nil {
		if opts.Interactive || runningOnWayland() {
			return nil, err
		}
		root, rootErr := platform.Root()
		if rootErr != nil {
			return nil, fmt.Errorf("portal: %v; x11 fallback: %w", err, rootErr)
		}
		img = root
	}

	switch {
	case !opts.Region.Empty():
		return cropToRect(img, opts.Region)
	case opts.Monitor != "":
		monitors, err := platform.Monitors()
		if err != nil {
			return nil, err
		}
		mon, err := FindMonitor(monitors, opts.Monitor)
		if err != nil {
			return nil, err
		}
		return cropToRect(img, mon.Rect)
	}
	return img, nil
}

// ListMonitors retrieves all monitors using the platform backend.
func ListMonitors() ([]MonitorInfo, error) {
	return platform.Monitors()
}

// FindMonitor resolves a monitor selector against the provided list.
func FindMonitor(monitors []MonitorInfo, selector string) (MonitorInfo, error) {
	if len(monitors) == 0 {
		return MonitorInfo{}, errNoMonitors
	}
	sel := strings.ToLower(strings.TrimSpace(selector))
	if sel == "" {
		return monitors[0], nil
	}
	if sel == "primary" {
		for _, mon := range monitors {
			if mon.Primary {
				return mon, nil
			}
		}
		return monitors[0], nil
	}
	if idx, err := strconv.Atoi(strings.TrimPrefix(sel, "#")); err == nil {
		if idx < 0 || idx >= len(monitors) {
			return MonitorInfo{}, fmt.Errorf("monitor index %d out of range", idx)
		}
		return monitors[idx], nil
	}
	for _, mon := range monitors {
		if strings.Contains(strings.ToLower(mon.Name), sel) {
			return mon, nil
		}
	}
	return MonitorInfo{}, fmt.Errorf("monitor %q not found", selector)
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
