package main

import (
	"flag"
	"fmt"

	"github.com/example/maskpaint/internal/capture"
)

var listMonitorsFn = capture.ListMonitors

// monitorsCmd lists the monitors -capture -monitor can select.
type monitorsCmd struct {
	*root
	fs *flag.FlagSet
}

func (m *monitorsCmd) FlagSet() *flag.FlagSet {
	return m.fs
}

func parseMonitorsCmd(args []string, r *root) (*monitorsCmd, error) {
	fs := flag.NewFlagSet("monitors", flag.ExitOnError)
	m := &monitorsCmd{root: r.subcommand("monitors"), fs: fs}
	fs.Usage = usageFunc(m)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *monitorsCmd) Run() error {
	monitors, err := listMonitorsFn()
	if err != nil {
		return fmt.Errorf("failed to list monitors: %w", err)
	}
	for _, mon := range monitors {
		primary := ""
		if mon.Primary {
			primary = " primary"
		}
		fmt.Fprintf(m.stdout, "%d\t%s\t%dx%d+%d+%d%s\n", mon.Index, mon.Name,
			mon.Rect.Dx(), mon.Rect.Dy(), mon.Rect.Min.X, mon.Rect.Min.Y, primary)
	}
	return nil
}
